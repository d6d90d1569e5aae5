package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/pmg/utils"
)

func TestEstimateEigs(t *testing.T) {
	// diag(1,2,...,8): after k CG iterations the tridiagonal Ritz values
	// reproduce the full spectrum, so the extremes are recovered
	{
		k := 8
		vals := make([]float64, k)
		for i := range vals {
			vals[i] = float64(i + 1)
		}
		A := diagOperator(vals...)
		b := utils.NewVectorConstant(k, 1)
		x := utils.NewVector(k)
		cg := CGSolver{MaxIters: k, RTol: 1.e-14}
		stats, err := cg.Solve(A, b, x)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, stats.Iterations, 2)

		lmin, lmax, err := EstimateEigs(stats.Alphas, stats.Betas)
		assert.NoError(t, err)
		assert.InDelta(t, 1, lmin, 1.e-3)
		assert.InDelta(t, float64(k), lmax, float64(k)*1.e-3)
	}
	// A clustered spectrum near 4: CG converges in two steps and both
	// extremal estimates sit at 4 within tolerance
	{
		A := diagOperator(4, 4, 4, 4.001)
		b := utils.NewVectorConstant(4, 4)
		x := utils.NewVector(4)
		cg := CGSolver{MaxIters: 10, RTol: 1.e-10}
		stats, err := cg.Solve(A, b, x)
		assert.NoError(t, err)
		assert.True(t, stats.Converged)
		assert.LessOrEqual(t, stats.Iterations, 2)

		lmin, lmax, err := EstimateEigs(stats.Alphas, stats.Betas)
		assert.NoError(t, err)
		assert.InDelta(t, 4, lmin, 4.e-3)
		assert.InDelta(t, 4, lmax, 4.e-3)
	}
	// Under Jacobi scaling the estimates are of inv(diag(A))·A = I here, so
	// the whole spectrum collapses to 1 and CG stops after one step: too few
	// coefficients to form extremal estimates
	{
		A := diagOperator(2, 5, 9)
		b := utils.NewVectorConstant(3, 1)
		x := utils.NewVector(3)
		cg := CGSolver{MaxIters: 10, RTol: 1.e-10, Jacobi: true}
		stats, err := cg.Solve(A, b, x)
		assert.NoError(t, err)
		assert.Equal(t, 1, stats.Iterations)
		_, _, err = EstimateEigs(stats.Alphas, stats.Betas)
		assert.True(t, errors.Is(err, ErrInsufficientIterations))
	}
	// Fewer than two recorded iterations cannot bound an interval
	{
		_, _, err := EstimateEigs([]float64{0.25}, []float64{0})
		assert.True(t, errors.Is(err, ErrInsufficientIterations))
		_, _, err = EstimateEigs(nil, nil)
		assert.True(t, errors.Is(err, ErrInsufficientIterations))
	}
}
