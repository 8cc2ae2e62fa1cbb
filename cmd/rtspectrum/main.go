// Command rtspectrum computes the absorption spectrum of a molecule from the
// x, y and z dipole traces of real-time electronic structure runs.
//
// Usage:
//
//	rtspectrum [flags]
//
// Settings are read from an optional YAML file, then from RTSPECTRUM_*
// variables (a .env file and the process environment), then from flags.
//
// Examples:
//
//	rtspectrum -x x.csv -y y.csv -z z.csv -kick 1e-4 -damp 150
//	rtspectrum -config water.yaml -png water.png
//	rtspectrum -x x.csv -y y.csv -z z.csv -cs -solver omp -out -
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/sparse"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
	"github.com/cwbudde/algo-rtspectrum/dsp/window"
	"github.com/cwbudde/algo-rtspectrum/internal/render"
	"github.com/cwbudde/algo-rtspectrum/measure/absorption"
	absorptionstats "github.com/cwbudde/algo-rtspectrum/stats/absorption"
)

func main() {
	cfg, err := configure(os.Args[1:], flag.ExitOnError)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("rtspectrum failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

// configure resolves the configuration layers for the given arguments.
func configure(args []string, handling flag.ErrorHandling) (Config, error) {
	fs := flag.NewFlagSet("rtspectrum", handling)
	configPath := fs.String("config", "", "YAML configuration file")
	envPath := fs.String("env", ".env", "file with RTSPECTRUM_* overrides (ignored if missing)")
	x := fs.String("x", "", "dipole file for a kick along x")
	y := fs.String("y", "", "dipole file for a kick along y")
	z := fs.String("z", "", "dipole file for a kick along z")
	kick := fs.Float64("kick", 0, "kick strength in atomic units")
	damp := fs.Float64("damp", 0, "damping constant in atomic time units")
	cs := fs.Bool("cs", false, "use compressed sensing instead of the Fourier transform")
	solver := fs.String("solver", "", "compressed-sensing solver ("+strings.Join(sparse.Global.Names(), "|")+")")
	csConst := fs.Float64("cs-const", 0, "compressed-sensing oversampling factor")
	csNoise := fs.Float64("cs-noise", 0, "compressed-sensing noise tolerance")
	out := fs.String("out", "", "CSV output path, - for stdout")
	png := fs.String("png", "", "PNG plot output path")
	html := fs.String("html", "", "HTML plot output path")
	parallel := fs.Bool("parallel", false, "process the axes concurrently")
	level := fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: rtspectrum [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Computes an isotropic absorption spectrum from real-time dipole traces.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadFile(&cfg, *configPath); err != nil {
			return Config{}, err
		}
	}

	env, err := readEnv(*envPath)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Input.X = *x
		case "y":
			cfg.Input.Y = *y
		case "z":
			cfg.Input.Z = *z
		case "kick":
			cfg.Analysis.KickStrength = *kick
		case "damp":
			cfg.Analysis.DampingConstant = *damp
		case "cs":
			if *cs {
				cfg.Analysis.Estimator = spectrum.MethodCompressedSensing.String()
			} else {
				cfg.Analysis.Estimator = spectrum.MethodFourier.String()
			}
		case "solver":
			cfg.Analysis.Solver = *solver
		case "cs-const":
			cfg.Analysis.CSConst = *csConst
		case "cs-noise":
			cfg.Analysis.CSNoise = *csNoise
		case "out":
			cfg.Output.CSV = *out
		case "png":
			cfg.Output.PNG = *png
		case "html":
			cfg.Output.HTML = *html
		case "parallel":
			cfg.Analysis.Parallel = *parallel
		case "log-level":
			cfg.Log.Level = *level
		}
	})

	return cfg, cfg.validate()
}

// analyzerOptions translates the configuration into pipeline options.
func analyzerOptions(cfg Config, log *zap.Logger) ([]absorption.Option, error) {
	a := cfg.Analysis

	envelope, err := window.ParseType(a.Envelope)
	if err != nil {
		return nil, err
	}
	convention, err := strength.ParseConvention(a.Convention)
	if err != nil {
		return nil, err
	}
	method, err := spectrum.ParseMethod(a.Estimator)
	if err != nil {
		return nil, err
	}

	opts := []absorption.Option{
		absorption.WithKickStrength(a.KickStrength),
		absorption.WithDampingConstant(a.DampingConstant),
		absorption.WithEnvelope(envelope),
		absorption.WithZeroPadding(a.ZeroPadding),
		absorption.WithConvention(convention),
		absorption.WithParallelAxes(a.Parallel),
		absorption.WithLogger(log),
	}

	if method == spectrum.MethodCompressedSensing {
		timeout, err := a.timeout()
		if err != nil {
			return nil, err
		}
		csOpts := []spectrum.CSOption{
			spectrum.WithConst(a.CSConst),
			spectrum.WithNoise(a.CSNoise),
			spectrum.WithMaxSamples(a.CSMaxSamples),
		}
		if timeout > 0 {
			csOpts = append(csOpts, spectrum.WithTimeout(timeout))
		}
		opts = append(opts, absorption.WithCompressedSensing(a.Solver, csOpts...))
		if a.MaxIterations > 0 {
			opts = append(opts, absorption.WithSolverOptions(sparse.WithMaxIterations(a.MaxIterations)))
		}
	}

	return opts, nil
}

func run(ctx context.Context, cfg Config, log *zap.Logger) error {
	scale, err := cfg.Input.scale()
	if err != nil {
		return err
	}
	opts, err := analyzerOptions(cfg, log)
	if err != nil {
		return err
	}
	analyzer, err := absorption.NewAnalyzer(opts...)
	if err != nil {
		return err
	}

	trace, err := dipole.LoadTrace(cfg.Input.X, cfg.Input.Y, cfg.Input.Z,
		dipole.WithColumns(cfg.Input.Columns),
		dipole.WithScale(scale))
	if err != nil {
		return err
	}
	log.Info("dipole traces loaded",
		zap.Int("samples", trace.Len()),
		zap.Float64("step_au", trace.Step()),
		zap.Stringer("method", analyzer.Method()),
	)

	res, err := analyzer.Analyze(ctx, trace)
	if err != nil {
		return err
	}

	report(log, res, cfg.Output.Peaks)

	if cfg.Output.CSV != "" {
		if err := writeFile(cfg.Output.CSV, func(w io.Writer) error { return writeCSV(w, res) }); err != nil {
			return err
		}
	}

	plotOpts := []render.Option{render.WithEnergyRange(0, cfg.Output.EnergyMax)}
	if res.Mode == strength.ModeSum {
		plotOpts = append(plotOpts, render.WithAutoScale())
	}
	series := plotSeries(res)
	if cfg.Output.PNG != "" {
		if err := writeFile(cfg.Output.PNG, func(w io.Writer) error { return render.PNG(w, series, plotOpts...) }); err != nil {
			return err
		}
		log.Info("plot written", zap.String("path", cfg.Output.PNG))
	}
	if cfg.Output.HTML != "" {
		if err := writeFile(cfg.Output.HTML, func(w io.Writer) error { return render.HTML(w, series, plotOpts...) }); err != nil {
			return err
		}
		log.Info("plot written", zap.String("path", cfg.Output.HTML))
	}
	return nil
}

// report logs summary statistics and the strongest lines.
func report(log *zap.Logger, res absorption.Result, maxPeaks int) {
	st := absorptionstats.Calculate(res.Combined)
	log.Info("spectrum statistics",
		zap.Float64("peak_eV", st.MaxEnergy),
		zap.Float64("fwhm_eV", st.Bandwidth),
		zap.Float64("centroid_eV", st.Centroid),
		zap.Float64("resolution_eV", st.Resolution),
		zap.Float64("sum_rule", st.SumRule),
	)

	peaks, err := absorptionstats.Peaks(res.Combined, absorptionstats.WithMaxPeaks(maxPeaks))
	if err != nil {
		log.Warn("peak search failed", zap.Error(err))
		return
	}
	for i, p := range peaks {
		log.Info("absorption line",
			zap.Int("rank", i+1),
			zap.Float64("energy_eV", p.Energy),
			zap.Float64("intensity", p.Intensity),
		)
	}
}
