// Package render draws strength spectra as static PNG images and as
// interactive HTML charts.
package render

import (
	"fmt"

	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
)

// Default plot window, in eV and strength units.
const (
	DefaultEnergyMin    = 0.0
	DefaultEnergyMax    = 25.0
	DefaultIntensityMin = 0.0
	DefaultIntensityMax = 2.0
)

// Series is one named curve.
type Series struct {
	Name     string
	Spectrum strength.Spectrum
}

// Option configures a plot.
type Option func(*config)

type config struct {
	title         string
	eMin, eMax    float64
	yMin, yMax    float64
	autoscale     bool
	width, height vg.Length
}

func defaultConfig() config {
	return config{
		title:  "Absorption spectrum",
		eMin:   DefaultEnergyMin,
		eMax:   DefaultEnergyMax,
		yMin:   DefaultIntensityMin,
		yMax:   DefaultIntensityMax,
		width:  8 * vg.Inch,
		height: 5 * vg.Inch,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithEnergyRange sets the visible energy window in eV. Empty ranges are
// ignored.
func WithEnergyRange(minEV, maxEV float64) Option {
	return func(cfg *config) {
		if maxEV > minEV {
			cfg.eMin, cfg.eMax = minEV, maxEV
		}
	}
}

// WithIntensityRange sets the visible intensity window. Empty ranges are
// ignored.
func WithIntensityRange(lo, hi float64) Option {
	return func(cfg *config) {
		if hi > lo {
			cfg.yMin, cfg.yMax = lo, hi
			cfg.autoscale = false
		}
	}
}

// WithAutoScale fits the intensity axis to the data inside the energy
// window.
func WithAutoScale() Option {
	return func(cfg *config) {
		cfg.autoscale = true
	}
}

// WithSize sets the PNG dimensions.
func WithSize(width, height vg.Length) Option {
	return func(cfg *config) {
		if width > 0 && height > 0 {
			cfg.width, cfg.height = width, height
		}
	}
}

// window returns the ω >= 0 points of s inside the energy window.
func (cfg config) window(s strength.Spectrum) (energy, intensity []float64) {
	pos := s.Positive()
	for i, e := range pos.Energy {
		if e >= cfg.eMin && e <= cfg.eMax {
			energy = append(energy, e)
			intensity = append(intensity, pos.Intensity[i])
		}
	}
	return energy, intensity
}

// intensityRange returns the y window, fitted to the data when autoscaling.
func (cfg config) intensityRange(series []Series) (lo, hi float64) {
	if !cfg.autoscale {
		return cfg.yMin, cfg.yMax
	}

	first := true
	for _, s := range series {
		_, ys := cfg.window(s.Spectrum)
		for _, y := range ys {
			if first {
				lo, hi = y, y
				first = false
				continue
			}
			lo = min(lo, y)
			hi = max(hi, y)
		}
	}
	if first || hi == lo {
		return cfg.yMin, cfg.yMax
	}
	pad := 0.05 * (hi - lo)
	return lo - pad, hi + pad
}

func validate(series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("%w: nothing to plot", core.ErrInvalidParameter)
	}
	for _, s := range series {
		n := s.Spectrum.Len()
		if len(s.Spectrum.Energy) != n || len(s.Spectrum.Omega) != n {
			return fmt.Errorf("%w: series %q has %d energies and %d frequencies for %d intensities",
				core.ErrShapeMismatch, s.Name, len(s.Spectrum.Energy), len(s.Spectrum.Omega), n)
		}
	}
	return nil
}
