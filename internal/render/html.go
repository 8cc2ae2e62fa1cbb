package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTML writes an interactive line chart of the series to w.
func HTML(w io.Writer, series []Series, options ...Option) error {
	if err := validate(series); err != nil {
		return err
	}
	cfg := applyOptions(options)
	yMin, yMax := cfg.intensityRange(series)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(htmlInit(cfg.title)),
		charts.WithTitleOpts(htmlTitle(cfg.title, series)),
		charts.WithTooltipOpts(htmlTooltip()),
		charts.WithLegendOpts(htmlLegend()),
		charts.WithXAxisOpts(htmlXAxis(cfg.eMin, cfg.eMax)),
		charts.WithYAxisOpts(htmlYAxis(yMin, yMax)),
		charts.WithDataZoomOpts(htmlZoom()),
	)

	for _, s := range series {
		energy, intensity := cfg.window(s.Spectrum)
		data := make([]opts.LineData, len(energy))
		for i := range energy {
			data[i] = opts.LineData{Value: []interface{}{energy[i], intensity[i]}}
		}
		line.AddSeries(s.Name, data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render: html: %w", err)
	}
	return nil
}

func htmlInit(title string) opts.Initialization {
	return opts.Initialization{PageTitle: title, Width: "1000px", Height: "600px"}
}

func htmlTitle(title string, series []Series) opts.Title {
	points := 0
	for _, s := range series {
		points += s.Spectrum.Len()
	}
	return opts.Title{Title: title, Subtitle: fmt.Sprintf("series=%d points=%d", len(series), points)}
}

func htmlTooltip() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}

func htmlLegend() opts.Legend {
	return opts.Legend{Show: opts.Bool(true)}
}

func htmlXAxis(lo, hi float64) opts.XAxis {
	return opts.XAxis{Type: "value", Name: "Energy (eV)", NameLocation: "middle", NameGap: 25, Min: lo, Max: hi}
}

func htmlYAxis(lo, hi float64) opts.YAxis {
	return opts.YAxis{Type: "value", Name: "S(ω)", NameLocation: "middle", NameGap: 40, Min: lo, Max: hi}
}

func htmlZoom() opts.DataZoom {
	return opts.DataZoom{Type: "inside"}
}
