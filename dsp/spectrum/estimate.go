package spectrum

import (
	"context"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
)

// Method identifies the estimator that produced an [Estimate].
type Method int

const (
	// MethodFourier is the discrete Fourier transform.
	MethodFourier Method = iota
	// MethodCompressedSensing is sparse recovery over a sine dictionary.
	MethodCompressedSensing
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodFourier:
		return "fourier"
	case MethodCompressedSensing:
		return "compressed-sensing"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves "fourier"/"fft" or "cs"/"compressed-sensing".
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fourier", "fft":
		return MethodFourier, nil
	case "cs", "compressed-sensing", "compressed_sensing":
		return MethodCompressedSensing, nil
	default:
		return 0, fmt.Errorf("%w: unknown spectral estimator %q", core.ErrInvalidParameter, name)
	}
}

// Estimate is the frequency-domain representation of one conditioned axis.
//
// Imag is always populated: the imaginary DFT channel for MethodFourier or
// the sparse coefficients for MethodCompressedSensing. Real and Magnitude
// are nil for compressed sensing.
type Estimate struct {
	Method    Method
	Real      []float64
	Imag      []float64
	Magnitude []float64

	// Step is the sampling interval of the transformed signal; together
	// with Len it fixes the frequency grid.
	Step float64

	// InputSamples is the length of the offered signal and UsedSamples the
	// number consumed. Truncated is set when the sample cap applied.
	InputSamples int
	UsedSamples  int
	Truncated    bool

	// Solver diagnostics, compressed sensing only. Converged false means
	// Residual exceeds the noise bound and the spectrum is approximate.
	Solver     string
	Iterations int
	Residual   float64
	Converged  bool
}

// Len returns the number of frequency bins.
func (e Estimate) Len() int { return len(e.Imag) }

// Grid returns the signed frequency grid matching the estimate's bins.
func (e Estimate) Grid() (Grid, error) {
	return BuildGrid(e.Len(), e.Step)
}

// Estimator maps a conditioned time series to an Estimate.
type Estimator interface {
	Method() Method
	Estimate(ctx context.Context, s dipole.TimeSeries) (Estimate, error)
}

func validateSeries(s dipole.TimeSeries) error {
	if s.Len() < 2 {
		return fmt.Errorf("%w: estimator needs at least 2 samples: %d", core.ErrInvalidParameter, s.Len())
	}
	if !(s.Step() > 0) {
		return fmt.Errorf("%w: time step must be > 0: %g", core.ErrInvalidParameter, s.Step())
	}
	return nil
}
