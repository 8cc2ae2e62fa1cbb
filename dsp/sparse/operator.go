package sparse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Operator is a linear map R^cols -> R^rows with access to its transpose and
// individual columns.
type Operator interface {
	// Dims returns the number of rows (observations) and columns (unknowns).
	Dims() (rows, cols int)
	// Apply computes dst = F·g. len(dst) == rows, len(g) == cols.
	Apply(dst, g []float64)
	// ApplyTranspose computes dst = Fᵀ·v. len(dst) == cols, len(v) == rows.
	ApplyTranspose(dst, v []float64)
	// Column copies column j into dst. len(dst) == rows.
	Column(dst []float64, j int)
}

func validateDims(nt, nw int) error {
	if nt < 1 || nw < 1 {
		return fmt.Errorf("%w: sensing dimensions must be >= 1: %dx%d", core.ErrInvalidParameter, nt, nw)
	}
	return nil
}

// SineMatrix returns the dense nt×nw sine dictionary F[i,j] = sin(2π·i·j/nw).
func SineMatrix(nt, nw int) (*mat.Dense, error) {
	if err := validateDims(nt, nw); err != nil {
		return nil, err
	}
	m := mat.NewDense(nt, nw, nil)
	for i := 0; i < nt; i++ {
		for j := 0; j < nw; j++ {
			m.Set(i, j, sineEntry(i, j, nw))
		}
	}
	return m, nil
}

func sineEntry(i, j, nw int) float64 {
	// Reduce i·j modulo nw first so the phase stays in [0, 2π). The zeros
	// at phase 0 and π are exact.
	k := (i * j) % nw
	if k == 0 || 2*k == nw {
		return 0
	}
	return math.Sin(2 * math.Pi * float64(k) / float64(nw))
}

// DenseOperator wraps an explicit matrix.
type DenseOperator struct {
	m *mat.Dense
}

// NewDenseOperator wraps m.
func NewDenseOperator(m *mat.Dense) *DenseOperator {
	return &DenseOperator{m: m}
}

// Dims implements Operator.
func (d *DenseOperator) Dims() (int, int) { return d.m.Dims() }

// Apply implements Operator.
func (d *DenseOperator) Apply(dst, g []float64) {
	out := mat.NewVecDense(len(dst), dst)
	out.MulVec(d.m, mat.NewVecDense(len(g), g))
}

// ApplyTranspose implements Operator.
func (d *DenseOperator) ApplyTranspose(dst, v []float64) {
	out := mat.NewVecDense(len(dst), dst)
	out.MulVec(d.m.T(), mat.NewVecDense(len(v), v))
}

// Column implements Operator.
func (d *DenseOperator) Column(dst []float64, j int) {
	mat.Col(dst, j, d.m)
}

// SineOperator applies the nt×nw sine dictionary through a length-nw FFT
// instead of an explicit matrix:
//
//	(F·g)_i  = −Im DFT(g)_i
//	(Fᵀ·v)_j = −Im DFT(v zero-padded to nw)_j
//
// It is not safe for concurrent use.
type SineOperator struct {
	nt, nw int
	fft    *fourier.CmplxFFT
	in     []complex128
	out    []complex128
}

// NewSineOperator returns the FFT-backed sine dictionary.
func NewSineOperator(nt, nw int) (*SineOperator, error) {
	if err := validateDims(nt, nw); err != nil {
		return nil, err
	}
	return &SineOperator{
		nt:  nt,
		nw:  nw,
		fft: fourier.NewCmplxFFT(nw),
		in:  make([]complex128, nw),
		out: make([]complex128, nw),
	}, nil
}

// Dims implements Operator.
func (s *SineOperator) Dims() (int, int) { return s.nt, s.nw }

// Apply implements Operator.
func (s *SineOperator) Apply(dst, g []float64) {
	for j, v := range g {
		s.in[j] = complex(v, 0)
	}
	s.fft.Coefficients(s.out, s.in)
	for i := range dst {
		dst[i] = -imag(s.out[i%s.nw])
	}
}

// ApplyTranspose implements Operator.
func (s *SineOperator) ApplyTranspose(dst, v []float64) {
	for j := range s.in {
		s.in[j] = 0
	}
	for i, x := range v {
		s.in[i%s.nw] += complex(x, 0)
	}
	s.fft.Coefficients(s.out, s.in)
	for j := range dst {
		dst[j] = -imag(s.out[j])
	}
}

// Column implements Operator.
func (s *SineOperator) Column(dst []float64, j int) {
	for i := range dst {
		dst[i] = sineEntry(i, j, s.nw)
	}
}

// NormSquared estimates the largest eigenvalue of FᵀF, the squared spectral
// norm of op, by power iteration.
func NormSquared(op Operator, iterations int) float64 {
	rows, cols := op.Dims()
	if iterations < 1 {
		iterations = 1
	}

	x := make([]float64, cols)
	for j := range x {
		// Deterministic start vector with components in every mode.
		x[j] = 1 + 0.5*math.Sin(float64(j)+1)
	}
	floats.Scale(1/floats.Norm(x, 2), x)

	y := make([]float64, rows)
	lambda := 0.0
	for it := 0; it < iterations; it++ {
		op.Apply(y, x)
		op.ApplyTranspose(x, y)
		n := floats.Norm(x, 2)
		if n == 0 {
			return 0
		}
		lambda = n
		floats.Scale(1/n, x)
	}
	return lambda
}
