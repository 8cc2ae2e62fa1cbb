package absorption

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
)

// DefaultPeakThreshold is the number of median absolute deviations a line
// must rise above the median intensity.
const DefaultPeakThreshold = 5.0

// Peak is a local maximum of a strength spectrum.
type Peak struct {
	Index     int // position within the ω >= 0 half
	Energy    float64
	Omega     float64
	Intensity float64
}

// PeakOption configures Peaks.
type PeakOption func(*peakConfig)

type peakConfig struct {
	threshold float64
	limit     int
}

// WithPeakThreshold sets the detection threshold in median absolute
// deviations above the median. Non-positive values are ignored.
func WithPeakThreshold(k float64) PeakOption {
	return func(cfg *peakConfig) {
		if k > 0 {
			cfg.threshold = k
		}
	}
}

// WithMaxPeaks limits the number of returned peaks. Zero means no limit.
func WithMaxPeaks(n int) PeakOption {
	return func(cfg *peakConfig) {
		if n >= 0 {
			cfg.limit = n
		}
	}
}

// Peaks returns the local maxima of the ω >= 0 half of s whose intensity
// exceeds median + k·MAD, strongest first. Absorption spectra are mostly flat
// background with a few sharp lines, so the median and MAD describe the
// background and are not pulled up by the lines themselves.
func Peaks(s strength.Spectrum, opts ...PeakOption) ([]Peak, error) {
	cfg := peakConfig{threshold: DefaultPeakThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	pos := s.Positive()
	n := pos.Len()
	if n < 3 {
		return nil, nil
	}
	if !core.AllFinite(pos.Intensity) {
		return nil, fmt.Errorf("%w: spectrum contains non-finite intensities", core.ErrInvalidParameter)
	}

	median, err := stats.Median(pos.Intensity)
	if err != nil {
		return nil, fmt.Errorf("peaks: median: %w", err)
	}
	mad, err := stats.MedianAbsoluteDeviation(pos.Intensity)
	if err != nil {
		return nil, fmt.Errorf("peaks: median absolute deviation: %w", err)
	}
	threshold := median + cfg.threshold*mad

	var peaks []Peak
	for i := 1; i < n-1; i++ {
		v := pos.Intensity[i]
		if v <= threshold || v < pos.Intensity[i-1] || v <= pos.Intensity[i+1] {
			continue
		}
		peaks = append(peaks, Peak{
			Index:     i,
			Energy:    pos.Energy[i],
			Omega:     pos.Omega[i],
			Intensity: v,
		})
	}

	sort.SliceStable(peaks, func(a, b int) bool {
		return peaks[a].Intensity > peaks[b].Intensity
	})
	if cfg.limit > 0 && len(peaks) > cfg.limit {
		peaks = peaks[:cfg.limit]
	}
	return peaks, nil
}
