package solver

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/pmg/utils"
)

// laplacian1D builds the (-1, 2, -1) stencil over n interior points.
func laplacian1D(n int) utils.CSR {
	d := utils.NewDOK(n, n)
	for i := 0; i < n; i++ {
		d.Set(i, i, 2)
		if i > 0 {
			d.Set(i, i-1, -1)
		}
		if i < n-1 {
			d.Set(i, i+1, -1)
		}
	}
	return d.ToCSR()
}

// linearProlongation maps nc interior coarse points onto 2nc+1 interior fine
// points with the standard [1/2, 1, 1/2] stencil.
func linearProlongation(nc int) utils.CSR {
	nf := 2*nc + 1
	d := utils.NewDOK(nf, nc)
	for j := 0; j < nc; j++ {
		d.Set(2*j+1, j, 1)
		d.Set(2*j, j, 0.5)
		d.Set(2*j+2, j, 0.5)
	}
	return d.ToCSR()
}

// galerkinCoarse forms Pᵀ A P column by column.
func galerkinCoarse(A utils.CSR, P utils.CSR) utils.CSR {
	nf, nc := P.Dims()
	d := utils.NewDOK(nc, nc)
	var (
		ej = utils.NewVector(nc)
		w  = utils.NewVector(nf)
		v  = utils.NewVector(nf)
		c  = utils.NewVector(nc)
	)
	for j := 0; j < nc; j++ {
		ej.Zero()
		ej.DataP()[j] = 1
		P.MulVec(ej, w)
		A.MulVec(w, v)
		P.MulVecTranspose(v, c)
		for i, val := range c.DataP() {
			if val != 0 {
				d.Set(i, j, val)
			}
		}
	}
	return d.ToCSR()
}

func TestRestrictionIsTransposeOfProlongation(t *testing.T) {
	// restrict(v)·w == v·prolong(w) for all v, w: the structural identity the
	// down-sweep/up-sweep pairing depends on
	rnd := rand.New(rand.NewSource(1))
	op := NewMatrixInterpolation(linearProlongation(7))
	nf, nc := op.Dims()
	for trial := 0; trial < 10; trial++ {
		v := utils.NewVector(nf)
		w := utils.NewVector(nc)
		for i := range v.DataP() {
			v.DataP()[i] = rnd.NormFloat64()
		}
		for i := range w.DataP() {
			w.DataP()[i] = rnd.NormFloat64()
		}
		rv := utils.NewVector(nc)
		pw := utils.NewVector(nf)
		op.Restrict(v, rv)
		op.Prolong(w, pw)
		assert.InDelta(t, rv.Dot(w), v.Dot(pw), 1.e-12)
	}
}

func TestHierarchyConstruction(t *testing.T) {
	A := laplacian1D(7)
	b := utils.NewVectorConstant(7, 1)
	// Too few levels
	{
		_, err := NewHierarchy([]LevelSpec{{Op: A, B: b}}, nil, DefaultHierarchyParams())
		assert.Error(t, err)
	}
	// Interpolation operator count must match
	{
		specs := []LevelSpec{{Op: A, B: b}, {Op: A, B: b}}
		_, err := NewHierarchy(specs, nil, DefaultHierarchyParams())
		assert.Error(t, err)
	}
	// Role tagging by position
	{
		Af := laplacian1D(15)
		P := linearProlongation(7)
		Ac := galerkinCoarse(Af, P)
		specs := []LevelSpec{
			{Op: Ac, B: utils.NewVector(7)},
			{Op: Af, B: utils.NewVectorConstant(15, 1)},
		}
		h, err := NewHierarchy(specs, []InterpolationOperator{NewMatrixInterpolation(P)}, DefaultHierarchyParams())
		assert.NoError(t, err)
		assert.Equal(t, CoarseLevel, h.Levels[0].Role)
		assert.Equal(t, FinestLevel, h.Levels[1].Role)
		_, ok := h.Levels[0].Smoother.(*ExactSolver)
		assert.True(t, ok)
		_, ok = h.Levels[1].Smoother.(*Chebyshev)
		assert.True(t, ok)
	}
}

func TestTwoLevelVCycle(t *testing.T) {
	// Exact coarse solve plus a calibrated Chebyshev smoother must reduce the
	// finest residual on every cycle and reach tolerance.
	var (
		nc = 7
		nf = 2*nc + 1
		Af = laplacian1D(nf)
		P  = linearProlongation(nc)
		Ac = galerkinCoarse(Af, P)
		b  = utils.NewVectorConstant(nf, 1)
	)
	params := DefaultHierarchyParams()
	params.Degree = 3
	specs := []LevelSpec{
		{Op: Ac, B: utils.NewVector(nc)},
		{Op: Af, B: b},
	}
	h, err := NewHierarchy(specs, []InterpolationOperator{NewMatrixInterpolation(P)}, params)
	assert.NoError(t, err)

	res, err := h.Solve(50, 1.e-10)
	assert.NoError(t, err)
	assert.True(t, res.Converged)
	prev := 1.0
	for _, rel := range res.ResidualHistory {
		assert.Less(t, rel, prev)
		prev = rel
	}

	// Against the direct solution
	direct, err := NewExactSolver(Af)
	assert.NoError(t, err)
	want := utils.NewVector(nf)
	assert.NoError(t, direct.Smooth(b, want))
	assert.InDeltaSlice(t, want.DataP(), h.Levels[1].U.DataP(), 1.e-7)
}

func TestVCycleBudgetExhaustion(t *testing.T) {
	// Budget exhaustion is a result annotation with the partial history, not
	// an error.
	var (
		nc = 7
		nf = 2*nc + 1
		Af = laplacian1D(nf)
		P  = linearProlongation(nc)
		Ac = galerkinCoarse(Af, P)
	)
	specs := []LevelSpec{
		{Op: Ac, B: utils.NewVector(nc)},
		{Op: Af, B: utils.NewVectorConstant(nf, 1)},
	}
	h, err := NewHierarchy(specs, []InterpolationOperator{NewMatrixInterpolation(P)}, DefaultHierarchyParams())
	assert.NoError(t, err)
	res, err := h.Solve(1, 1.e-14)
	assert.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Cycles)
	assert.Len(t, res.ResidualHistory, 1)
}

func TestVCycleSmootherFailure(t *testing.T) {
	// A smoother failure mid-cycle aborts the solve: the error names the
	// failing level and wraps the smoother's condition, and the partial result
	// is returned alongside it. An indefinite fine operator with the load on
	// its negative mode breaks the CG smoother on its first iteration.
	var (
		nc   = 3
		nf   = 2*nc + 1
		vals = make([]float64, nf)
		b    = utils.NewVector(nf)
	)
	for i := range vals {
		vals[i] = 1
	}
	vals[nf-1] = -1
	b.DataP()[nf-1] = 1

	params := DefaultHierarchyParams()
	params.SmootherType = CGSmoothing
	params.Degree = 3
	params.Jacobi = false
	specs := []LevelSpec{
		{Op: laplacian1D(nc), B: utils.NewVector(nc)},
		{Op: diagOperator(vals...), B: b},
	}
	h, err := NewHierarchy(specs, []InterpolationOperator{NewMatrixInterpolation(linearProlongation(nc))}, params)
	assert.NoError(t, err)

	res, err := h.Solve(10, 1.e-10)
	assert.True(t, errors.Is(err, ErrBreakdown))
	assert.ErrorContains(t, err, "level 1")
	assert.Equal(t, 0, res.Cycles)
	assert.Empty(t, res.ResidualHistory)
}

func TestCGSmoothing(t *testing.T) {
	// The fixed-iteration CG variant satisfies the same smoother contract.
	var (
		nc = 7
		nf = 2*nc + 1
		Af = laplacian1D(nf)
		P  = linearProlongation(nc)
		Ac = galerkinCoarse(Af, P)
	)
	params := DefaultHierarchyParams()
	params.SmootherType = CGSmoothing
	params.Degree = 2
	specs := []LevelSpec{
		{Op: Ac, B: utils.NewVector(nc)},
		{Op: Af, B: utils.NewVectorConstant(nf, 1)},
	}
	h, err := NewHierarchy(specs, []InterpolationOperator{NewMatrixInterpolation(P)}, params)
	assert.NoError(t, err)
	_, ok := h.Levels[1].Smoother.(*CGSmoother)
	assert.True(t, ok)
	res, err := h.Solve(100, 1.e-8)
	assert.NoError(t, err)
	assert.True(t, res.Converged)
}
