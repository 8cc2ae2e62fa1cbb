package sparse

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NameOMP is the registry name of the orthogonal matching pursuit solver.
const NameOMP = "omp"

// degenerateRatio marks a candidate column whose component orthogonal to
// the current support is negligible relative to its norm.
const degenerateRatio = 1e-9

// OMP is orthogonal matching pursuit. Each step adds the column with the
// largest normalized correlation to the residual, then re-fits all selected
// coefficients by least squares. It stops once ‖F·g − h‖₂ ≤ noise, the
// support reaches the atom limit, or no column reduces the residual.
type OMP struct {
	cfg config
}

// NewOMP returns an orthogonal matching pursuit solver.
func NewOMP(opts ...Option) *OMP {
	return &OMP{cfg: applyOptions(opts)}
}

// Name implements Solver.
func (o *OMP) Name() string { return NameOMP }

// Solve implements Solver.
func (o *OMP) Solve(ctx context.Context, op Operator, h []float64, noise float64) (Result, error) {
	if err := validateProblem(op, h, noise); err != nil {
		return Result{}, err
	}
	rows, cols := op.Dims()

	maxAtoms := o.cfg.maxAtoms
	if maxAtoms <= 0 || maxAtoms > rows {
		maxAtoms = rows
	}
	if maxAtoms > cols {
		maxAtoms = cols
	}

	colNorm := make([]float64, cols)
	col := make([]float64, rows)
	for j := range colNorm {
		op.Column(col, j)
		colNorm[j] = floats.Norm(col, 2)
	}
	// Columns that vanish up to rounding carry no information; their
	// normalized correlation would be noise divided by noise.
	floor := degenerateRatio * floats.Max(colNorm)
	for j, n := range colNorm {
		if n <= floor {
			colNorm[j] = 0
		}
	}

	residual := append([]float64(nil), h...)
	resNorm := floats.Norm(residual, 2)
	corr := make([]float64, cols)
	excluded := make([]bool, cols)

	var (
		support []int
		basis   [][]float64 // orthonormal basis of the selected columns
	)

	res := Result{}
	for len(support) < maxAtoms && resNorm > noise {
		if err := contextErr(ctx, NameOMP, len(support)); err != nil {
			return Result{}, err
		}

		op.ApplyTranspose(corr, residual)
		best, bestScore := -1, 0.0
		for j, c := range corr {
			if excluded[j] || colNorm[j] == 0 {
				continue
			}
			if s := math.Abs(c) / colNorm[j]; s > bestScore {
				best, bestScore = j, s
			}
		}
		if best < 0 || bestScore == 0 {
			break
		}

		q := make([]float64, rows)
		op.Column(q, best)
		for _, b := range basis {
			floats.AddScaled(q, -floats.Dot(b, q), b)
		}
		qn := floats.Norm(q, 2)
		if qn <= degenerateRatio*colNorm[best] {
			excluded[best] = true
			continue
		}
		floats.Scale(1/qn, q)

		support = append(support, best)
		basis = append(basis, q)
		excluded[best] = true

		floats.AddScaled(residual, -floats.Dot(q, residual), q)
		next := floats.Norm(residual, 2)
		res.Iterations++
		if next >= resNorm {
			resNorm = next
			break
		}
		resNorm = next
	}

	g := make([]float64, cols)
	if len(support) > 0 {
		coef, err := leastSquares(op, support, h)
		if err != nil {
			return Result{}, err
		}
		for k, j := range support {
			g[j] = coef[k]
		}
	}

	fg := make([]float64, rows)
	op.Apply(fg, g)
	floats.Sub(fg, h)
	res.Residual = floats.Norm(fg, 2)
	res.Converged = res.Residual <= noise || resNorm <= noise
	res.Coefficients = g
	return res, nil
}

// leastSquares fits h with the selected columns of op via QR.
func leastSquares(op Operator, support []int, h []float64) ([]float64, error) {
	rows, _ := op.Dims()
	a := mat.NewDense(rows, len(support), nil)
	col := make([]float64, rows)
	for k, j := range support {
		op.Column(col, j)
		a.SetCol(k, col)
	}

	var qr mat.QR
	qr.Factorize(a)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, mat.NewVecDense(rows, append([]float64(nil), h...))); err != nil {
		return nil, fmt.Errorf("least squares: %w", err)
	}
	return mat.Col(nil, 0, &x), nil
}
