package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cwbudde/algo-rtspectrum/internal/render"
	"github.com/cwbudde/algo-rtspectrum/measure/absorption"
)

var csvHeader = []string{"energy_eV", "S_x", "S_y", "S_z", "S"}

// writeCSV writes one row per ω >= 0 point of the combined spectrum with the
// matching axis intensities.
func writeCSV(w io.Writer, res absorption.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	combined := res.Combined
	row := make([]string, len(csvHeader))
	for i, omega := range combined.Omega {
		if omega < 0 {
			continue
		}
		row[0] = formatFloat(combined.Energy[i])
		for a := range res.Axes {
			row[1+a] = formatFloat(res.Axes[a].Spectrum.Intensity[i])
		}
		row[4] = formatFloat(combined.Intensity[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// plotSeries returns the curves drawn by the plot writers.
func plotSeries(res absorption.Result) []render.Series {
	series := []render.Series{{Name: "S", Spectrum: res.Combined}}
	for _, a := range res.Axes {
		series = append(series, render.Series{Name: "S_" + a.Axis.String(), Spectrum: a.Spectrum})
	}
	return series
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
