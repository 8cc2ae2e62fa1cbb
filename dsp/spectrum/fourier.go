package spectrum

import (
	"context"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
)

// Fourier estimates the spectrum with an unnormalized forward DFT,
// X[k] = Σ x[n]·exp(−2πi·k·n/N), keeping all N bins.
type Fourier struct{}

// NewFourier returns the Fourier estimator.
func NewFourier() *Fourier { return &Fourier{} }

// Method implements Estimator.
func (f *Fourier) Method() Method { return MethodFourier }

// Estimate implements Estimator. ctx is only checked before the transform.
func (f *Fourier) Estimate(ctx context.Context, s dipole.TimeSeries) (Estimate, error) {
	if err := validateSeries(s); err != nil {
		return Estimate{}, err
	}
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	bins, err := Transform(s.Values())
	if err != nil {
		return Estimate{}, err
	}

	re, im, mag := Split(bins)
	return Estimate{
		Method:       MethodFourier,
		Real:         re,
		Imag:         im,
		Magnitude:    mag,
		Step:         s.Step(),
		InputSamples: s.Len(),
		UsedSamples:  s.Len(),
	}, nil
}

// Transform returns the forward DFT of a real signal. Lengths that algo-fft
// cannot plan are transformed with gonum's mixed-radix FFT.
func Transform(x []float64) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, nil
	}

	buf := getScratch(n)
	defer putScratch(buf)
	in := buf.data
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, n)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return fourier.NewCmplxFFT(n).Coefficients(out, in), nil
	}
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: fft forward: %w", err)
	}
	return out, nil
}
