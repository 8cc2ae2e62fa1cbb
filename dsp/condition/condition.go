// Package condition prepares a raw dipole series for spectral estimation:
// the static dipole is removed and a damping envelope applied so the
// transform reflects only the induced response with a known line width.
package condition

import (
	"fmt"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/window"
)

// Option configures Condition.
type Option func(*config)

type config struct {
	envelope window.Type
	padding  int
}

// WithEnvelope selects the damping envelope. The default is exponential.
func WithEnvelope(t window.Type) Option {
	return func(c *config) {
		c.envelope = t
	}
}

// WithZeroPadding appends n zero samples after damping, continuing the time
// axis at the same step. Padding densifies the frequency grid without adding
// information.
func WithZeroPadding(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.padding = n
		}
	}
}

// Condition subtracts the first amplitude from every sample and multiplies
// the result by the damping envelope with decay constant tau, measured from
// the first time stamp.
//
// tau must be positive and finite even when the envelope is window.TypeNone.
// The input is not modified.
func Condition(s dipole.TimeSeries, tau float64, opts ...Option) (dipole.TimeSeries, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if s.Len() < 2 {
		return dipole.TimeSeries{}, fmt.Errorf("%w: condition needs at least 2 samples: %d",
			core.ErrInvalidParameter, s.Len())
	}
	step := s.Step()
	if !(step > 0) {
		return dipole.TimeSeries{}, fmt.Errorf("%w: time step must be > 0: %g", core.ErrInvalidParameter, step)
	}
	if !(tau > 0) || !core.IsFinite(tau) {
		return dipole.TimeSeries{}, fmt.Errorf("%w: damping constant must be > 0: %g", core.ErrInvalidParameter, tau)
	}

	values := Baseline(s.Values())
	if err := window.Apply(cfg.envelope, values, step, tau); err != nil {
		return dipole.TimeSeries{}, err
	}

	times := s.Times()
	if cfg.padding > 0 {
		t0 := s.Start()
		n := len(times)
		for i := 0; i < cfg.padding; i++ {
			times = append(times, t0+float64(n+i)*step)
			values = append(values, 0)
		}
	}

	return dipole.NewTimeSeries(times, values)
}

// Baseline subtracts values[0] from every element in place and returns
// values. The first element is exactly zero afterwards.
func Baseline(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	v0 := values[0]
	for i := range values {
		values[i] -= v0
	}
	return values
}
