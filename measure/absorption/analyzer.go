package absorption

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-rtspectrum/dsp/condition"
	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/sparse"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
)

// AxisResult is the outcome of one axis.
type AxisResult struct {
	Axis     dipole.Axis
	Estimate spectrum.Estimate
	Spectrum strength.Spectrum
}

// Result holds the per-axis and combined spectra.
type Result struct {
	Axes     [3]AxisResult
	Combined strength.Spectrum
	Mode     strength.Mode
}

// Analyzer runs the absorption pipeline with a fixed configuration. It is
// safe for concurrent use.
type Analyzer struct {
	cfg       config
	estimator spectrum.Estimator
	mode      strength.Mode
}

// NewAnalyzer validates the configuration and resolves the estimator.
// A requested compressed-sensing solver that is not registered is
// core.ErrMissingDependency.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.kick == 0 || !core.IsFinite(cfg.kick) {
		return nil, fmt.Errorf("%w: kick strength must be finite and nonzero: %g", core.ErrInvalidParameter, cfg.kick)
	}
	if !(cfg.damping > 0) || !core.IsFinite(cfg.damping) {
		return nil, fmt.Errorf("%w: damping constant must be > 0: %g", core.ErrInvalidParameter, cfg.damping)
	}

	est, err := resolveEstimator(cfg)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:       cfg,
		estimator: est,
		mode:      strength.ModeFor(est.Method()),
	}, nil
}

func resolveEstimator(cfg config) (spectrum.Estimator, error) {
	if cfg.estimator != nil {
		return cfg.estimator, nil
	}
	if !cfg.useCS {
		return spectrum.NewFourier(), nil
	}

	var (
		solver sparse.Solver
		err    error
	)
	if cfg.solver == "" {
		solver, err = sparse.Global.Default(cfg.solverOpts...)
	} else {
		solver, err = sparse.Global.Lookup(cfg.solver, cfg.solverOpts...)
	}
	if err != nil {
		return nil, err
	}

	csOpts := append([]spectrum.CSOption{spectrum.WithLogger(cfg.logger)}, cfg.csOpts...)
	return spectrum.NewCompressedSensing(solver, csOpts...)
}

// Method returns the estimation method in use.
func (a *Analyzer) Method() spectrum.Method { return a.estimator.Method() }

// Mode returns the axis combination mode in use.
func (a *Analyzer) Mode() strength.Mode { return a.mode }

// AnalyzeAxis runs the single-axis pipeline on s. Errors carry the axis
// label.
func (a *Analyzer) AnalyzeAxis(ctx context.Context, axis dipole.Axis, s dipole.TimeSeries) (AxisResult, error) {
	if !axis.Valid() {
		return AxisResult{}, fmt.Errorf("%w: invalid axis %d", core.ErrInvalidParameter, int(axis))
	}

	res, err := a.analyzeAxis(ctx, axis, s)
	if err != nil {
		return AxisResult{}, fmt.Errorf("axis %s: %w", axis, err)
	}
	return res, nil
}

func (a *Analyzer) analyzeAxis(ctx context.Context, axis dipole.Axis, s dipole.TimeSeries) (AxisResult, error) {
	conditioned, err := condition.Condition(s, a.cfg.damping,
		condition.WithEnvelope(a.cfg.envelope),
		condition.WithZeroPadding(a.cfg.padding))
	if err != nil {
		return AxisResult{}, err
	}

	est, err := a.estimator.Estimate(ctx, conditioned)
	if err != nil {
		return AxisResult{}, err
	}

	grid, err := est.Grid()
	if err != nil {
		return AxisResult{}, err
	}

	sp, err := strength.Compute(est, grid, a.cfg.kick, strength.WithConvention(a.cfg.convention))
	if err != nil {
		return AxisResult{}, err
	}

	a.cfg.logger.Debug("axis analyzed",
		zap.Stringer("axis", axis),
		zap.Stringer("method", est.Method),
		zap.Int("samples", est.UsedSamples),
		zap.Int("bins", est.Len()),
		zap.Bool("truncated", est.Truncated),
	)

	return AxisResult{Axis: axis, Estimate: est, Spectrum: sp}, nil
}

// Analyze runs the pipeline on all three axes of trace and combines them.
// The first axis failure aborts the analysis.
func (a *Analyzer) Analyze(ctx context.Context, trace dipole.Trace) (Result, error) {
	var res Result
	res.Mode = a.mode

	if a.cfg.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, axis := range dipole.Axes {
			g.Go(func() error {
				r, err := a.AnalyzeAxis(gctx, axis, trace.Axis(axis))
				if err != nil {
					return err
				}
				res.Axes[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	} else {
		for i, axis := range dipole.Axes {
			r, err := a.AnalyzeAxis(ctx, axis, trace.Axis(axis))
			if err != nil {
				return Result{}, err
			}
			res.Axes[i] = r
		}
	}

	combined, err := strength.Combine(res.Axes[0].Spectrum, res.Axes[1].Spectrum, res.Axes[2].Spectrum, a.mode)
	if err != nil {
		return Result{}, err
	}
	res.Combined = combined

	a.cfg.logger.Info("absorption spectrum computed",
		zap.Stringer("method", a.estimator.Method()),
		zap.Stringer("mode", a.mode),
		zap.Int("points", combined.Len()),
	)

	return res, nil
}

// Analyze is a one-shot helper equivalent to NewAnalyzer followed by
// Analyzer.Analyze.
func Analyze(ctx context.Context, trace dipole.Trace, opts ...Option) (Result, error) {
	a, err := NewAnalyzer(opts...)
	if err != nil {
		return Result{}, err
	}
	return a.Analyze(ctx, trace)
}
