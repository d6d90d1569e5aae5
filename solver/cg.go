package solver

import (
	"fmt"
	"math"

	"github.com/notargets/pmg/utils"
)

// Operator is the SPD sparse linear map consumed by the solvers. Positive
// definiteness is a precondition, not a runtime check: an indefinite operator
// produces a Breakdown in CG or garbage eigenvalue estimates.
type Operator interface {
	Dims() (nr, nc int)
	MulVec(x, y utils.Vector) // y = A x
	Diagonal() utils.Vector
}

// CGSolver solves A x = b for SPD A by preconditioned conjugate gradients,
// recording the step coefficients that connect the CG recurrence to the
// Lanczos tridiagonalization of A.
type CGSolver struct {
	MaxIters int
	RTol     float64
	Jacobi   bool // precondition with diag(A)
	Verbose  bool
}

// CGStats reports one solve. Alphas and Betas are the ordered recurrence
// coefficients, returned explicitly so a solve is pure and reentrant.
type CGStats struct {
	Alphas, Betas []float64
	ResidualNorms []float64 // unpreconditioned ||r|| after each iteration
	RNorm0        float64   // unpreconditioned initial residual norm
	Iterations    int
	Converged     bool
}

// Solve iterates x in place toward A x = b, at most MaxIters steps or until
// sqrt(r·r / r0·r0) < RTol. The convergence test always uses the
// unpreconditioned residual, independent of Jacobi scaling. A zero or
// negative p·Ap returns ErrBreakdown with the partial stats gathered so far.
func (cg CGSolver) Solve(A Operator, b, x utils.Vector) (stats CGStats, err error) {
	var (
		n    = b.Len()
		r    = b.Copy()
		y    = utils.NewVector(n)
		dinv utils.Vector
	)
	stats.Alphas = make([]float64, 0, cg.MaxIters)
	stats.Betas = make([]float64, 0, cg.MaxIters)
	stats.ResidualNorms = make([]float64, 0, cg.MaxIters)

	if cg.Jacobi {
		dinv = A.Diagonal().Apply(func(v float64) float64 { return 1 / v })
	}

	// r = b - A x
	A.MulVec(x, y)
	r.Sub(y)

	z := r
	if cg.Jacobi {
		z = r.Copy().ElMul(dinv)
	}
	p := z.Copy()

	rr := r.Dot(r)
	rz := r.Dot(z)
	rr0 := rr
	stats.RNorm0 = math.Sqrt(rr0)
	if cg.Verbose {
		fmt.Printf("num dofs = %d\n", n)
		fmt.Printf("rnorm0 = %v\n", stats.RNorm0)
	}
	if rr0 == 0 {
		stats.Converged = true
		return
	}

	for i := 0; i < cg.MaxIters; i++ {
		A.MulVec(p, y)
		py := p.Dot(y)
		if py <= 0 {
			err = fmt.Errorf("iteration %d: p·Ap = %v: %w", i, py, ErrBreakdown)
			return
		}
		alpha := rz / py
		x.AXPY(alpha, p)
		r.AXPY(-alpha, y)

		rrNew := r.Dot(r)
		if cg.Jacobi {
			z.CopyFrom(r).ElMul(dinv)
		}
		rzNew := r.Dot(z)
		beta := rzNew / rz

		stats.Alphas = append(stats.Alphas, alpha)
		stats.Betas = append(stats.Betas, beta)
		stats.ResidualNorms = append(stats.ResidualNorms, math.Sqrt(rrNew))
		stats.Iterations = i + 1

		rr, rz = rrNew, rzNew

		// p = beta p + z
		p.Scale(beta).Add(z)

		if cg.Verbose {
			fmt.Printf("Iteration %d: residual %v, alpha = %v, beta = %v\n",
				i+1, math.Sqrt(rr), alpha, beta)
		}
		if math.Sqrt(rr/rr0) < cg.RTol {
			stats.Converged = true
			break
		}
	}
	return
}
