package strength

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
)

// Mode selects how axis spectra are combined.
type Mode int

const (
	// ModeSum adds the three axes.
	ModeSum Mode = iota
	// ModeNormalized adds the three axes, divides by the Euclidean norm of
	// the sum and takes absolute values. Sparse recovery fixes relative
	// magnitudes better than sign, so this is the mode for compressed
	// sensing.
	ModeNormalized
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSum:
		return "sum"
	case ModeNormalized:
		return "normalized"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFor returns the combination mode matching an estimator.
func ModeFor(m spectrum.Method) Mode {
	if m == spectrum.MethodCompressedSensing {
		return ModeNormalized
	}
	return ModeSum
}

// Combine sums the x, y and z spectra point by point. The inputs must share
// one aligned energy grid; only their lengths are checked. The energy axis of
// x is used for the result.
func Combine(x, y, z Spectrum, mode Mode) (Spectrum, error) {
	n := x.Len()
	for _, s := range []Spectrum{y, z} {
		if s.Len() != n {
			return Spectrum{}, fmt.Errorf("%w: axis spectra have %d, %d and %d points",
				core.ErrShapeMismatch, x.Len(), y.Len(), z.Len())
		}
	}
	if len(x.Energy) != n || len(x.Omega) != n {
		return Spectrum{}, fmt.Errorf("%w: energy axis has %d points, intensity %d",
			core.ErrShapeMismatch, len(x.Energy), n)
	}

	sum := append([]float64(nil), x.Intensity...)
	vecmath.AddBlockInPlace(sum, y.Intensity)
	vecmath.AddBlockInPlace(sum, z.Intensity)

	switch mode {
	case ModeSum:
	case ModeNormalized:
		if norm := floats.Norm(sum, 2); norm > 0 {
			vecmath.ScaleBlock(sum, sum, 1/norm)
		}
		for i, v := range sum {
			sum[i] = math.Abs(v)
		}
	default:
		return Spectrum{}, fmt.Errorf("%w: unknown combination mode %d", core.ErrInvalidParameter, int(mode))
	}

	return Spectrum{
		Energy:    append([]float64(nil), x.Energy...),
		Omega:     append([]float64(nil), x.Omega...),
		Intensity: sum,
		Method:    x.Method,
	}, nil
}
