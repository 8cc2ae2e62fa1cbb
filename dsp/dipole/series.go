package dipole

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// stepTolerance is the relative deviation allowed between consecutive time
// steps before a grid is rejected as non-uniform.
const stepTolerance = 1e-6

// TimeSeries is an immutable, uniformly sampled (time, amplitude) sequence.
//
// The zero value is empty and invalid. Construct with [NewTimeSeries].
type TimeSeries struct {
	time []float64
	amp  []float64
	step float64
}

// NewTimeSeries validates and copies time and amplitude samples.
//
// time must be strictly increasing with a uniform step and both slices must
// have the same length of at least 2. Non-finite values are rejected.
func NewTimeSeries(time, amplitude []float64) (TimeSeries, error) {
	if len(time) != len(amplitude) {
		return TimeSeries{}, fmt.Errorf("%w: time/amplitude length mismatch: %d != %d",
			core.ErrInvalidParameter, len(time), len(amplitude))
	}
	if len(time) < 2 {
		return TimeSeries{}, fmt.Errorf("%w: time series needs at least 2 samples: %d",
			core.ErrInvalidParameter, len(time))
	}
	if !core.AllFinite(time) || !core.AllFinite(amplitude) {
		return TimeSeries{}, fmt.Errorf("%w: time series contains non-finite values", core.ErrInvalidParameter)
	}

	step := time[1] - time[0]
	if !(step > 0) {
		return TimeSeries{}, fmt.Errorf("%w: time step must be > 0: %g", core.ErrInvalidParameter, step)
	}
	for i := 2; i < len(time); i++ {
		d := time[i] - time[i-1]
		if math.Abs(d-step) > stepTolerance*step {
			return TimeSeries{}, fmt.Errorf("%w: non-uniform time step at index %d: %g != %g",
				core.ErrInvalidParameter, i, d, step)
		}
	}

	return TimeSeries{
		time: append([]float64(nil), time...),
		amp:  append([]float64(nil), amplitude...),
		step: step,
	}, nil
}

// Len returns the number of samples.
func (s TimeSeries) Len() int { return len(s.time) }

// Step returns the sampling interval.
func (s TimeSeries) Step() float64 { return s.step }

// Start returns the first time stamp.
func (s TimeSeries) Start() float64 {
	if len(s.time) == 0 {
		return 0
	}
	return s.time[0]
}

// TimeAt returns the i-th time stamp.
func (s TimeSeries) TimeAt(i int) float64 { return s.time[i] }

// ValueAt returns the i-th amplitude.
func (s TimeSeries) ValueAt(i int) float64 { return s.amp[i] }

// Times returns a copy of the time stamps.
func (s TimeSeries) Times() []float64 { return append([]float64(nil), s.time...) }

// Values returns a copy of the amplitudes.
func (s TimeSeries) Values() []float64 { return append([]float64(nil), s.amp...) }

// Head returns a series holding the first n samples. n is clamped to
// [2, Len()].
func (s TimeSeries) Head(n int) TimeSeries {
	if n >= len(s.time) {
		return s
	}
	if n < 2 {
		n = 2
	}
	return TimeSeries{time: s.time[:n:n], amp: s.amp[:n:n], step: s.step}
}

// Trace is a dipole series per Cartesian axis on a shared time grid.
type Trace struct {
	axes [3]TimeSeries
}

// NewTrace groups three axis series. All three must share the same time grid.
func NewTrace(x, y, z TimeSeries) (Trace, error) {
	series := [3]TimeSeries{x, y, z}
	for i, s := range series {
		if s.Len() < 2 {
			return Trace{}, fmt.Errorf("%w: axis %s series is empty", core.ErrInvalidParameter, Axes[i])
		}
	}
	for i := 1; i < len(series); i++ {
		if err := sameGrid(series[0], series[i]); err != nil {
			return Trace{}, fmt.Errorf("axis %s: %w", Axes[i], err)
		}
	}
	return Trace{axes: series}, nil
}

// Axis returns the series for a. It panics for an invalid axis.
func (t Trace) Axis(a Axis) TimeSeries {
	return t.axes[a]
}

// Len returns the shared sample count.
func (t Trace) Len() int { return t.axes[0].Len() }

// Step returns the shared sampling interval.
func (t Trace) Step() float64 { return t.axes[0].Step() }

func sameGrid(a, b TimeSeries) error {
	if a.Len() != b.Len() {
		return fmt.Errorf("%w: sample count %d != %d", core.ErrShapeMismatch, b.Len(), a.Len())
	}
	for i := range a.time {
		if !core.NearlyEqual(a.time[i], b.time[i], stepTolerance*a.step) {
			return fmt.Errorf("%w: time grid differs at index %d: %g != %g",
				core.ErrShapeMismatch, i, b.time[i], a.time[i])
		}
	}
	return nil
}
