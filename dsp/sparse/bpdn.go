package sparse

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// NameBPDN is the registry name of the basis pursuit denoising solver.
const NameBPDN = "bpdn"

// checkEvery is how many iterations pass between context checks.
const checkEvery = 32

// polishFloor is the smallest |g_j|/max|g| counted as support when refitting.
const polishFloor = 1e-8

// BPDN solves min ‖g‖₁ subject to ‖F·g − h‖₂ ≤ noise with linearized ADMM.
//
// Splitting r = F·g − h gives the iteration
//
//	g ← shrink(g − τ·Fᵀ(F·g − r − h + u), τ/β)
//	r ← project(F·g − h + u) onto the ball ‖r‖₂ ≤ noise
//	u ← u + F·g − r − h
//
// with τ < 1/‖F‖². h is rescaled to unit peak amplitude before solving and
// the coefficients scaled back, so β does not depend on the signal units.
//
// ADMM approaches the ball boundary slowly. When the iteration limit is hit
// with the residual still above noise, the coefficients are refit by least
// squares on the recovered support; the refit is kept only if it meets the
// bound.
type BPDN struct {
	cfg config
}

// NewBPDN returns a basis pursuit denoising solver.
func NewBPDN(opts ...Option) *BPDN {
	return &BPDN{cfg: applyOptions(opts)}
}

// Name implements Solver.
func (b *BPDN) Name() string { return NameBPDN }

// Solve implements Solver.
func (b *BPDN) Solve(ctx context.Context, op Operator, h []float64, noise float64) (Result, error) {
	if err := validateProblem(op, h, noise); err != nil {
		return Result{}, err
	}
	rows, cols := op.Dims()

	scale := maxAbs(h)
	if scale == 0 {
		return Result{Coefficients: make([]float64, cols), Converged: true}, nil
	}
	hs := append([]float64(nil), h...)
	floats.Scale(1/scale, hs)
	sigma := noise / scale

	lambda := NormSquared(op, 50)
	if lambda == 0 {
		return Result{Coefficients: make([]float64, cols), Residual: floats.Norm(h, 2)}, nil
	}
	tau := 0.9 / lambda
	beta := b.cfg.penalty
	thresh := tau / beta

	g := make([]float64, cols)
	gPrev := make([]float64, cols)
	grad := make([]float64, cols)
	fg := make([]float64, rows)
	r := make([]float64, rows)
	u := make([]float64, rows)
	w := make([]float64, rows)

	res := Result{}
	for it := 1; it <= b.cfg.maxIterations; it++ {
		if it%checkEvery == 0 {
			if err := contextErr(ctx, NameBPDN, it); err != nil {
				return Result{}, err
			}
		}

		// w = F·g − r − h + u
		op.Apply(fg, g)
		for i := range w {
			w[i] = fg[i] - r[i] - hs[i] + u[i]
		}
		op.ApplyTranspose(grad, w)

		copy(gPrev, g)
		for j := range g {
			g[j] = shrink(g[j]-tau*grad[j], thresh)
		}

		op.Apply(fg, g)
		for i := range r {
			r[i] = fg[i] - hs[i] + u[i]
		}
		projectBall(r, sigma)

		for i := range u {
			w[i] = fg[i] - r[i] - hs[i]
			u[i] += w[i]
		}

		res.Iterations = it
		primal := floats.Norm(w, 2)
		change := floats.Distance(g, gPrev, 2) / math.Max(floats.Norm(g, 2), 1e-300)
		if primal <= b.cfg.tolerance && change <= b.cfg.tolerance {
			res.Converged = true
			break
		}
	}

	op.Apply(fg, g)
	floats.Sub(fg, hs)
	res.Residual = floats.Norm(fg, 2) * scale
	bound := noise*(1+1e-6) + b.cfg.tolerance*scale
	res.Converged = res.Converged && res.Residual <= bound

	if res.Residual > noise*(1+1e-6) {
		if refit, resid, ok := polish(op, g, hs, sigma*(1+1e-6)); ok {
			g = refit
			res.Residual = resid * scale
			res.Converged = true
		}
	}

	floats.Scale(scale, g)
	res.Coefficients = g
	return res, nil
}

// polish refits h on the support of g by least squares. Support columns are
// taken in order of decreasing |g| and dropped when linearly dependent on
// those already taken. It reports false when the refit misses radius.
func polish(op Operator, g, h []float64, radius float64) ([]float64, float64, bool) {
	rows, cols := op.Dims()

	peak := maxAbs(g)
	if peak == 0 {
		return nil, 0, false
	}
	var candidates []int
	for j, v := range g {
		if math.Abs(v) > polishFloor*peak {
			candidates = append(candidates, j)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		return math.Abs(g[candidates[a]]) > math.Abs(g[candidates[b]])
	})
	if len(candidates) > 2*rows {
		candidates = candidates[:2*rows]
	}

	var (
		support []int
		basis   [][]float64
	)
	col := make([]float64, rows)
	for _, j := range candidates {
		if len(support) == rows {
			break
		}
		op.Column(col, j)
		cn := floats.Norm(col, 2)
		if cn == 0 {
			continue
		}
		q := append([]float64(nil), col...)
		for _, b := range basis {
			floats.AddScaled(q, -floats.Dot(b, q), b)
		}
		qn := floats.Norm(q, 2)
		if qn <= degenerateRatio*cn {
			continue
		}
		floats.Scale(1/qn, q)
		basis = append(basis, q)
		support = append(support, j)
	}
	if len(support) == 0 {
		return nil, 0, false
	}

	coef, err := leastSquares(op, support, h)
	if err != nil {
		return nil, 0, false
	}
	refit := make([]float64, cols)
	for k, j := range support {
		refit[j] = coef[k]
	}

	fg := make([]float64, rows)
	op.Apply(fg, refit)
	floats.Sub(fg, h)
	resid := floats.Norm(fg, 2)
	if resid > radius {
		return nil, 0, false
	}
	return refit, resid, true
}

func shrink(x, t float64) float64 {
	switch {
	case x > t:
		return x - t
	case x < -t:
		return x + t
	default:
		return 0
	}
}

func projectBall(r []float64, radius float64) {
	n := floats.Norm(r, 2)
	if n <= radius {
		return
	}
	if radius == 0 {
		for i := range r {
			r[i] = 0
		}
		return
	}
	floats.Scale(radius/n, r)
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
