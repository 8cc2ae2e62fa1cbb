package sparse

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/internal/testutil"
)

func column(t *testing.T, nt, nw, j int) []float64 {
	t.Helper()
	op, err := NewSineOperator(nt, nw)
	if err != nil {
		t.Fatal(err)
	}
	c := make([]float64, nt)
	op.Column(c, j)
	return c
}

func TestSineOperatorMatchesDense(t *testing.T) {
	for _, dims := range [][2]int{{8, 40}, {16, 48}, {25, 125}, {10, 7}} {
		nt, nw := dims[0], dims[1]
		m, err := SineMatrix(nt, nw)
		if err != nil {
			t.Fatal(err)
		}
		dense := NewDenseOperator(m)
		fast, err := NewSineOperator(nt, nw)
		if err != nil {
			t.Fatal(err)
		}

		g := testutil.DeterministicNoise(1, 1, nw)
		v := testutil.DeterministicNoise(2, 1, nt)

		want := make([]float64, nt)
		got := make([]float64, nt)
		dense.Apply(want, g)
		fast.Apply(got, g)
		maxDiff, err := testutil.MaxAbsDiff(want, got)
		if err != nil {
			t.Fatal(err)
		}
		if maxDiff > 1e-9 {
			t.Fatalf("%dx%d Apply: max deviation from dense = %g", nt, nw, maxDiff)
		}

		wantT := make([]float64, nw)
		gotT := make([]float64, nw)
		dense.ApplyTranspose(wantT, v)
		fast.ApplyTranspose(gotT, v)
		if diff := cmp.Diff(wantT, gotT, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatalf("%dx%d ApplyTranspose mismatch (-dense +fft):\n%s", nt, nw, diff)
		}

		colD := make([]float64, nt)
		colF := make([]float64, nt)
		dense.Column(colD, 3%nw)
		fast.Column(colF, 3%nw)
		if diff := cmp.Diff(colD, colF); diff != "" {
			t.Fatalf("column mismatch:\n%s", diff)
		}
	}
}

func TestSineMatrixEntries(t *testing.T) {
	m, err := SineMatrix(4, 8)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 8; j++ {
		if m.At(0, j) != 0 {
			t.Fatalf("row 0 must vanish: F[0,%d] = %v", j, m.At(0, j))
		}
	}
	if got := m.At(1, 2); math.Abs(got-1) > 1e-15 {
		t.Fatalf("F[1,2] = %v, want sin(π/2) = 1", got)
	}
	if _, err := SineMatrix(0, 8); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestNormSquaredTightFrame(t *testing.T) {
	// For nt <= nw/2 the rows of the sine dictionary are orthogonal with
	// squared norm nw/2, so ‖F‖² = nw/2.
	op, err := NewSineOperator(20, 100)
	if err != nil {
		t.Fatal(err)
	}
	got := NormSquared(op, 50)
	if math.Abs(got-50) > 1e-6 {
		t.Fatalf("NormSquared = %v, want 50", got)
	}
}

func TestOMPRecoversSingleMode(t *testing.T) {
	const nt, nw, j0 = 16, 48, 5
	h := column(t, nt, nw, j0)
	op, _ := NewSineOperator(nt, nw)

	res, err := NewOMP().Solve(context.Background(), op, h, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Coefficients) != nw {
		t.Fatalf("len = %d, want %d", len(res.Coefficients), nw)
	}
	if !res.Converged || res.Residual > 1e-9 {
		t.Fatalf("converged=%v residual=%g", res.Converged, res.Residual)
	}
	// Columns j and nw-j are negatives of each other.
	if folded := res.Coefficients[j0] - res.Coefficients[nw-j0]; math.Abs(folded-1) > 1e-9 {
		t.Fatalf("folded coefficient = %v, want 1", folded)
	}
	if res.Iterations != 1 {
		t.Fatalf("iterations = %d, want 1", res.Iterations)
	}
}

func TestOMPRecoversTwoModes(t *testing.T) {
	const nt, nw = 40, 96
	h := column(t, nt, nw, 5)
	floats.AddScaled(h, 0.5, column(t, nt, nw, 17))
	op, _ := NewSineOperator(nt, nw)

	res, err := NewOMP().Solve(context.Background(), op, h, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if res.Residual > 1e-9 {
		t.Fatalf("residual = %g", res.Residual)
	}
	if got := res.Coefficients[5] - res.Coefficients[nw-5]; math.Abs(got-1) > 1e-8 {
		t.Fatalf("mode 5 = %v, want 1", got)
	}
	if got := res.Coefficients[17] - res.Coefficients[nw-17]; math.Abs(got-0.5) > 1e-8 {
		t.Fatalf("mode 17 = %v, want 0.5", got)
	}
}

func TestOMPZeroSignal(t *testing.T) {
	op, _ := NewSineOperator(8, 40)
	res, err := NewOMP().Solve(context.Background(), op, make([]float64, 8), 1e-7)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireAllZero(t, res.Coefficients)
	if !res.Converged {
		t.Fatal("zero signal should converge immediately")
	}
}

func TestBPDNRecoversSingleMode(t *testing.T) {
	const nt, nw, j0 = 16, 48, 5
	h := column(t, nt, nw, j0)
	op, _ := NewSineOperator(nt, nw)

	res, err := NewBPDN(WithMaxIterations(20000)).Solve(context.Background(), op, h, 1e-7)
	if err != nil {
		t.Fatal(err)
	}
	if res.Residual > 1e-2 {
		t.Fatalf("residual = %g", res.Residual)
	}
	if folded := res.Coefficients[j0] - res.Coefficients[nw-j0]; math.Abs(folded-1) > 1e-2 {
		t.Fatalf("folded coefficient = %v, want 1", folded)
	}

	rest := 0.0
	for j, v := range res.Coefficients {
		if j != j0 && j != nw-j0 {
			rest += math.Abs(v)
		}
	}
	if rest > 5e-2 {
		t.Fatalf("off-support L1 mass = %v, want ~0", rest)
	}
}

func TestBPDNMeetsBoundAtIterationLimit(t *testing.T) {
	// Two on-grid modes: ADMM alone stays above the residual bound after a
	// few hundred iterations, the support refit closes the gap.
	const nt, nw = 32, 160
	h := column(t, nt, nw, 21)
	floats.AddScaled(h, 0.5, column(t, nt, nw, 50))
	op, _ := NewSineOperator(nt, nw)

	res, err := NewBPDN(WithMaxIterations(300)).Solve(context.Background(), op, h, 1e-7)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged || res.Residual > 1e-7 {
		t.Fatalf("converged = %v, residual = %g, want residual <= 1e-7", res.Converged, res.Residual)
	}
	if res.Iterations > 300 {
		t.Fatalf("iterations = %d, want <= 300", res.Iterations)
	}

	fit := make([]float64, nt)
	op.Apply(fit, res.Coefficients)
	maxDiff, err := testutil.MaxAbsDiff(fit, h)
	if err != nil {
		t.Fatal(err)
	}
	if maxDiff > 1e-7 {
		t.Fatalf("max deviation of F·g from h = %g", maxDiff)
	}

	for _, c := range []struct {
		j    int
		want float64
	}{{21, 1}, {50, 0.5}} {
		if folded := res.Coefficients[c.j] - res.Coefficients[nw-c.j]; math.Abs(folded-c.want) > 1e-6 {
			t.Fatalf("folded coefficient %d = %v, want %v", c.j, folded, c.want)
		}
	}
}

func TestPolishRejectsUnreachableBound(t *testing.T) {
	// h[0] != 0 is outside the span of the sine dictionary.
	h := testutil.DeterministicNoise(7, 1, 16)
	h[0] = 1
	op, _ := NewSineOperator(16, 80)
	g := make([]float64, 80)
	g[5] = 1

	if _, _, ok := polish(op, g, h, 1e-7); ok {
		t.Fatal("polish accepted a refit above the residual bound")
	}
	if _, _, ok := polish(op, make([]float64, 80), h, 1); ok {
		t.Fatal("polish accepted an empty support")
	}
}

func TestBPDNIsScaleInvariant(t *testing.T) {
	const nt, nw = 12, 36
	h := column(t, nt, nw, 4)
	op, _ := NewSineOperator(nt, nw)
	solver := NewBPDN(WithMaxIterations(2000))

	ref, err := solver.Solve(context.Background(), op, h, 0)
	if err != nil {
		t.Fatal(err)
	}

	scaled := append([]float64(nil), h...)
	floats.Scale(1e-5, scaled)
	got, err := solver.Solve(context.Background(), op, scaled, 0)
	if err != nil {
		t.Fatal(err)
	}
	floats.Scale(1e5, got.Coefficients)
	if diff := cmp.Diff(ref.Coefficients, got.Coefficients, cmpopts.EquateApprox(1e-4, 1e-6)); diff != "" {
		t.Fatalf("scaled solution differs:\n%s", diff)
	}
}

func TestSolversRejectBadInput(t *testing.T) {
	op, _ := NewSineOperator(8, 40)
	for _, s := range []Solver{NewBPDN(), NewOMP()} {
		if _, err := s.Solve(context.Background(), op, make([]float64, 7), 1e-7); !errors.Is(err, core.ErrShapeMismatch) {
			t.Fatalf("%s: err = %v, want ErrShapeMismatch", s.Name(), err)
		}
		if _, err := s.Solve(context.Background(), op, make([]float64, 8), -1); !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("%s: err = %v, want ErrInvalidParameter", s.Name(), err)
		}
		if _, err := s.Solve(context.Background(), nil, nil, 0); !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("%s: err = %v, want ErrInvalidParameter", s.Name(), err)
		}
	}
}

func TestSolversReportTimeout(t *testing.T) {
	// h[0] != 0 cannot be matched by the sine dictionary, so neither solver
	// reaches its bound before the context is checked.
	h := testutil.DeterministicNoise(3, 1, 32)
	op, _ := NewSineOperator(32, 160)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	for _, s := range []Solver{NewBPDN(), NewOMP()} {
		_, err := s.Solve(ctx, op, h, 1e-12)
		if !errors.Is(err, core.ErrTimeout) {
			t.Fatalf("%s: err = %v, want ErrTimeout", s.Name(), err)
		}
	}

	cctx, ccancel := context.WithCancel(context.Background())
	ccancel()
	_, err := NewOMP().Solve(cctx, op, h, 1e-12)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRegistry(t *testing.T) {
	if diff := cmp.Diff([]string{NameBPDN, NameOMP}, Global.Names()); diff != "" {
		t.Fatalf("names mismatch:\n%s", diff)
	}

	s, err := Global.Lookup("OMP")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != NameOMP {
		t.Fatalf("Lookup(OMP) = %s", s.Name())
	}

	d, err := Global.Default()
	if err != nil {
		t.Fatal(err)
	}
	if d.Name() != NameBPDN {
		t.Fatalf("Default = %s, want %s", d.Name(), NameBPDN)
	}

	if _, err := Global.Lookup("cvxpy"); !errors.Is(err, core.ErrMissingDependency) {
		t.Fatalf("err = %v, want ErrMissingDependency", err)
	}

	empty := &Registry{}
	if _, err := empty.Default(); !errors.Is(err, core.ErrMissingDependency) {
		t.Fatalf("err = %v, want ErrMissingDependency", err)
	}
	empty.Register(Entry{Name: "Greedy", Kind: KindGreedy, New: func(...Option) Solver { return NewOMP() }})
	if _, err := empty.Default(); !errors.Is(err, core.ErrMissingDependency) {
		t.Fatal("greedy-only registry must not provide a convex default")
	}
	if _, err := empty.Lookup("greedy"); err != nil {
		t.Fatal(err)
	}
}
