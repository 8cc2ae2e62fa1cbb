package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PNG draws the series as lines and writes a PNG image to w.
func PNG(w io.Writer, series []Series, opts ...Option) error {
	if err := validate(series); err != nil {
		return err
	}
	cfg := applyOptions(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Energy (eV)"
	p.Y.Label.Text = "S(ω)"
	p.X.Min, p.X.Max = cfg.eMin, cfg.eMax
	p.Y.Min, p.Y.Max = cfg.intensityRange(series)
	p.Add(plotter.NewGrid())

	for i, s := range series {
		energy, intensity := cfg.window(s.Spectrum)
		if len(energy) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(energy))
		for j := range energy {
			pts[j] = plotter.XY{X: energy[j], Y: intensity[j]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render: series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(cfg.width, cfg.height, "png")
	if err != nil {
		return fmt.Errorf("render: png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: png: %w", err)
	}
	return nil
}
