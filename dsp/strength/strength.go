// Package strength converts a frequency-domain dipole response into the
// dipole strength function S(ω) and combines the three Cartesian axes into
// an isotropic spectrum.
package strength

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
)

// Convention selects the response formula.
type Convention int

const (
	// ConventionDeltaKick is S(ω) = −4πω·Im[f(ω)] / (3·c·κ), for a field
	// applied as an instantaneous kick of strength κ. It is the default.
	ConventionDeltaKick Convention = iota
	// ConventionStaticField is S(ω) = 2ω²·Re[f(ω)] / (3π·c·κ), for a
	// simulation started in a static field κ. It needs the real channel and
	// is therefore Fourier-only.
	ConventionStaticField
)

// String returns the convention name.
func (c Convention) String() string {
	switch c {
	case ConventionDeltaKick:
		return "delta-kick"
	case ConventionStaticField:
		return "static-field"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// ParseConvention maps a name to a Convention. The empty string selects
// ConventionDeltaKick.
func ParseConvention(name string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "delta-kick", "kick", "delta":
		return ConventionDeltaKick, nil
	case "static-field", "static":
		return ConventionStaticField, nil
	default:
		return 0, fmt.Errorf("%w: unknown strength convention %q", core.ErrInvalidParameter, name)
	}
}

// Spectrum is an energy-resolved strength function. Points are kept in the
// order of the frequency grid they were computed on.
type Spectrum struct {
	// Energy is the excitation energy in eV.
	Energy []float64
	// Omega is the angular frequency in atomic units.
	Omega []float64
	// Intensity is S at each point.
	Intensity []float64
	// Method is the estimator the spectrum derives from.
	Method spectrum.Method
}

// Len returns the number of points.
func (s Spectrum) Len() int { return len(s.Intensity) }

// Positive returns the points with ω >= 0, in their original order.
func (s Spectrum) Positive() Spectrum {
	out := Spectrum{Method: s.Method}
	for i, w := range s.Omega {
		if w >= 0 {
			out.Energy = append(out.Energy, s.Energy[i])
			out.Omega = append(out.Omega, w)
			out.Intensity = append(out.Intensity, s.Intensity[i])
		}
	}
	return out
}

// Option configures Compute.
type Option func(*config)

type config struct {
	convention Convention
}

// WithConvention selects the response formula.
func WithConvention(c Convention) Option {
	return func(cfg *config) {
		cfg.convention = c
	}
}

// Compute evaluates the strength function of est on grid for kick strength
// kick (atomic units). The grid must have one frequency per estimate bin.
// For compressed-sensing estimates the sparse coefficients stand in for
// Im[f].
func Compute(est spectrum.Estimate, grid spectrum.Grid, kick float64, opts ...Option) (Spectrum, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if kick == 0 || !core.IsFinite(kick) {
		return Spectrum{}, fmt.Errorf("%w: kick strength must be finite and nonzero: %g", core.ErrInvalidParameter, kick)
	}
	if grid.Len() != est.Len() {
		return Spectrum{}, fmt.Errorf("%w: grid has %d bins, estimate has %d",
			core.ErrShapeMismatch, grid.Len(), est.Len())
	}

	s := Spectrum{
		Energy:    grid.Energies(),
		Omega:     append([]float64(nil), grid.Omega...),
		Intensity: make([]float64, est.Len()),
		Method:    est.Method,
	}

	switch cfg.convention {
	case ConventionDeltaKick:
		scale := -4 * math.Pi / (3 * core.SpeedOfLightAU * kick)
		for i, w := range s.Omega {
			s.Intensity[i] = scale * w * est.Imag[i]
		}
	case ConventionStaticField:
		if len(est.Real) != est.Len() {
			return Spectrum{}, fmt.Errorf("%w: static-field strength needs the real channel, %s estimates have none",
				core.ErrInvalidParameter, est.Method)
		}
		scale := 2 / (3 * math.Pi * core.SpeedOfLightAU * kick)
		for i, w := range s.Omega {
			s.Intensity[i] = scale * w * w * est.Real[i]
		}
	default:
		return Spectrum{}, fmt.Errorf("%w: unknown strength convention %d", core.ErrInvalidParameter, int(cfg.convention))
	}

	return s, nil
}
