// Package absorption computes summary statistics of absorption spectra:
// peak position and width, spectral centroid, the oscillator-strength sum
// rule and prominent absorption lines.
package absorption

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
)

// Stats holds summary statistics of the non-negative-frequency half of a
// strength spectrum. Energies are in eV.
type Stats struct {
	Points     int
	Max        float64
	MaxEnergy  float64
	Min        float64
	MinEnergy  float64
	Sum        float64 // sum of intensities
	Centroid   float64 // intensity-weighted mean energy
	Spread     float64 // intensity-weighted standard deviation around Centroid
	Bandwidth  float64 // full width at half maximum around the peak
	SumRule    float64 // ∫ S(ω) dω in atomic units
	Resolution float64 // energy spacing between points
}

// Calculate computes Stats from the ω >= 0 points of s. Centroid and Spread
// only weight positive intensities.
func Calculate(s strength.Spectrum) Stats {
	pos := s.Positive()
	n := pos.Len()
	if n == 0 {
		return Stats{}
	}

	st := Stats{
		Points:    n,
		Max:       pos.Intensity[0],
		MaxEnergy: pos.Energy[0],
		Min:       pos.Intensity[0],
		MinEnergy: pos.Energy[0],
	}
	if n > 1 {
		st.Resolution = pos.Energy[1] - pos.Energy[0]
	}

	for i, v := range pos.Intensity {
		st.Sum += v
		if v > st.Max {
			st.Max = v
			st.MaxEnergy = pos.Energy[i]
		}
		if v < st.Min {
			st.Min = v
			st.MinEnergy = pos.Energy[i]
		}
	}

	st.Centroid, st.Spread = moments(pos.Energy, pos.Intensity)
	st.Bandwidth = bandwidth(pos.Energy, pos.Intensity)
	st.SumRule = SumRule(s)
	return st
}

func moments(energy, intensity []float64) (centroid, spread float64) {
	var weight, weighted float64
	for i, v := range intensity {
		if v > 0 {
			weight += v
			weighted += v * energy[i]
		}
	}
	if weight == 0 {
		return 0, 0
	}
	centroid = weighted / weight

	var sq float64
	for i, v := range intensity {
		if v > 0 {
			d := energy[i] - centroid
			sq += d * d * v
		}
	}
	return centroid, math.Sqrt(sq / weight)
}

// SumRule integrates S over the non-negative angular frequencies of s, in
// atomic units. For a converged delta-kick spectrum of a system with N
// electrons the result approaches N (Thomas-Reiche-Kuhn). Simpson's rule is
// used from three points up, the trapezoidal rule for two, and a single point
// integrates to zero.
func SumRule(s strength.Spectrum) float64 {
	pos := s.Positive()
	switch {
	case pos.Len() < 2:
		return 0
	case pos.Len() < 3:
		return integrate.Trapezoidal(pos.Omega, pos.Intensity)
	default:
		return integrate.Simpsons(pos.Omega, pos.Intensity)
	}
}

// Bandwidth returns the full width at half maximum of the highest line of s
// in eV, searching only ω >= 0.
func Bandwidth(s strength.Spectrum) float64 {
	pos := s.Positive()
	return bandwidth(pos.Energy, pos.Intensity)
}

func bandwidth(energy, intensity []float64) float64 {
	n := len(intensity)
	if n < 2 {
		return 0
	}

	peakBin := 0
	peakVal := intensity[0]
	for i, v := range intensity {
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}
	if !(peakVal > 0) {
		return 0
	}

	threshold := peakVal / 2

	lower := energy[0]
	for i := peakBin; i >= 1; i-- {
		if intensity[i-1] <= threshold && intensity[i] > threshold {
			lower = interpEnergy(energy[i-1], energy[i], intensity[i-1], intensity[i], threshold)
			break
		}
	}

	upper := energy[n-1]
	for i := peakBin; i < n-1; i++ {
		if intensity[i+1] <= threshold && intensity[i] > threshold {
			upper = interpEnergy(energy[i], energy[i+1], intensity[i], intensity[i+1], threshold)
			break
		}
	}

	if bw := upper - lower; bw > 0 {
		return bw
	}
	return 0
}

// interpEnergy linearly interpolates the energy at which the intensity
// crosses threshold between two neighbouring points.
func interpEnergy(eLow, eHigh, vLow, vHigh, threshold float64) float64 {
	denom := vHigh - vLow
	if denom == 0 {
		return (eLow + eHigh) / 2
	}
	t := (threshold - vLow) / denom
	return eLow + t*(eHigh-eLow)
}

// ToAU converts an energy in eV to atomic units.
func ToAU(eV float64) float64 { return eV / core.HartreeToEV }
