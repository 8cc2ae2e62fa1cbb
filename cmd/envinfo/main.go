// Command envinfo prints the line broadening of the damping envelopes for a
// given damping constant and record length.
//
// Usage:
//
//	envinfo [flags] [envelope-name ...]
//
// Without arguments it prints info for all envelopes.
//
// Examples:
//
//	envinfo
//	envinfo -damp 50 exponential
//	envinfo -n 20000 -dt 0.05 -damp 250 gaussian
//	envinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/window"
)

var envelopes = []window.Type{window.TypeExponential, window.TypeGaussian, window.TypeNone}

func main() {
	damp := flag.Float64("damp", 150, "damping constant in atomic time units")
	dt := flag.Float64("dt", 0.1, "time step in atomic time units")
	n := flag.Int("n", 10000, "record length in samples")
	list := flag.Bool("list", false, "list available envelope names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: envinfo [flags] [envelope-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints line widths imposed by damping envelopes.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, t := range envelopes {
			fmt.Println(t)
		}
		return
	}

	types := envelopes
	if names := flag.Args(); len(names) > 0 {
		types = nil
		for _, name := range names {
			t, err := window.ParseType(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v (use -list to see available)\n", err)
				continue
			}
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching envelopes\n")
		os.Exit(1)
	}

	if err := printInfo(os.Stdout, types, *damp, *dt, *n); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// row is one line of the envelope table.
type row struct {
	envelope   window.Type
	fwhmAU     float64
	fwhmEV     float64
	resolution float64 // grid spacing in eV
	tail       float64 // envelope value at the last sample
}

func analyze(t window.Type, damp, dt float64, n int) (row, error) {
	coeffs, err := window.Generate(t, n, dt, damp)
	if err != nil {
		return row{}, err
	}
	fwhm := window.FWHM(t, damp)
	return row{
		envelope:   t,
		fwhmAU:     fwhm,
		fwhmEV:     fwhm * core.HartreeToEV,
		resolution: 2 * math.Pi / (float64(n) * dt) * core.HartreeToEV,
		tail:       coeffs[n-1],
	}, nil
}

func printInfo(w io.Writer, types []window.Type, damp, dt float64, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Envelope\tLine shape\tFWHM [au]\tFWHM [eV]\tResolution [eV]\tTail\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "--------\t----------\t---------\t---------\t---------------\t----\n"); err != nil {
		return err
	}

	for _, t := range types {
		r, err := analyze(t, damp, dt, n)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.4f\t%.4f\t%.3g\n",
			r.envelope, window.Info(t).LineShape, r.fwhmAU, r.fwhmEV, r.resolution, r.tail); err != nil {
			return err
		}
	}
	return tw.Flush()
}
