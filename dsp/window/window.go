// Package window generates the damping envelopes applied to a time-domain
// dipole signal before spectral estimation.
//
// A finite record transformed as-is rings with sinc sidelobes. Multiplying it
// by a decaying envelope trades resolution for a smooth, known line shape:
// an exponential envelope gives Lorentzian peaks, a Gaussian envelope gives
// Gaussian peaks.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Type identifies a damping envelope.
type Type int

const (
	// TypeExponential is exp(-(t-t0)/tau). It is the zero value.
	TypeExponential Type = iota
	// TypeGaussian is exp(-((t-t0)/tau)^2).
	TypeGaussian
	// TypeNone leaves the signal undamped.
	TypeNone
)

// Metadata describes an envelope type.
type Metadata struct {
	Name      string
	LineShape string
}

var metadataByType = map[Type]Metadata{
	TypeExponential: {Name: "exponential", LineShape: "Lorentzian"},
	TypeGaussian:    {Name: "gaussian", LineShape: "Gaussian"},
	TypeNone:        {Name: "none", LineShape: "sinc"},
}

// Info returns static metadata for an envelope type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

// String returns the envelope name.
func (t Type) String() string {
	if m, ok := metadataByType[t]; ok {
		return m.Name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves an envelope by name ("exponential", "gaussian", "none").
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "exp", "lorentzian":
		return TypeExponential, nil
	case "gauss":
		return TypeGaussian, nil
	}
	for t, m := range metadataByType {
		if m.Name == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown damping envelope %q", core.ErrInvalidParameter, name)
}

// Generate returns size envelope coefficients for samples spaced step apart,
// measured from the first sample, with decay constant tau.
func Generate(t Type, size int, step, tau float64) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	if err := validateDecay(step, tau); err != nil {
		return nil, err
	}

	out := make([]float64, size)
	for i := range out {
		out[i] = evalEnvelope(t, float64(i)*step/tau)
	}

	return out, nil
}

// Apply multiplies samples in place by the selected envelope.
func Apply(t Type, samples []float64, step, tau float64) error {
	coeffs, err := Generate(t, len(samples), step, tau)
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// FWHM returns the full width at half maximum, in angular frequency units
// reciprocal to tau, of the line shape an envelope imposes on a single mode.
// TypeNone returns 0: the width is then set by the record length alone.
func FWHM(t Type, tau float64) float64 {
	if !(tau > 0) {
		return math.NaN()
	}

	switch t {
	case TypeExponential:
		return 2 / tau
	case TypeGaussian:
		return 4 * math.Sqrt(math.Ln2) / tau
	default:
		return 0
	}
}

func evalEnvelope(t Type, x float64) float64 {
	switch t {
	case TypeExponential:
		return math.Exp(-x)
	case TypeGaussian:
		return math.Exp(-x * x)
	default:
		return 1
	}
}
