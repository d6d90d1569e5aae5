package solver

import (
	"fmt"

	"github.com/notargets/pmg/utils"
	"gonum.org/v1/gonum/mat"
)

// Smoother is the single capability a multigrid level needs from its
// relaxation step: a fixed-cost pass at A x = b from the current x. The two
// variants are the estimator-calibrated Chebyshev and a fixed-iteration CG;
// the coarse level's exact solve satisfies the same contract.
type Smoother interface {
	Smooth(b, x utils.Vector) error
}

// CGSmoother wraps a CG run with a small fixed iteration budget and a nonzero
// initial guess, used as a level smoother. Non-convergence is expected and
// ignored; only breakdown propagates.
type CGSmoother struct {
	A  Operator
	cg CGSolver
}

func NewCGSmoother(A Operator, iters int, jacobi bool) *CGSmoother {
	return &CGSmoother{
		A: A,
		cg: CGSolver{
			MaxIters: iters,
			RTol:     1.e-14,
			Jacobi:   jacobi,
		},
	}
}

func (s *CGSmoother) Smooth(b, x utils.Vector) error {
	_, err := s.cg.Solve(s.A, b, x)
	return err
}

// ExactSolver is the coarse-level direct solve: a dense Cholesky
// factorization computed once at setup and applied every cycle.
type ExactSolver struct {
	chol mat.Cholesky
	n    int
}

func NewExactSolver(a mat.Matrix) (e *ExactSolver, err error) {
	nr, nc := a.Dims()
	if nr != nc {
		err = fmt.Errorf("exact solver: operator is %dx%d, must be square", nr, nc)
		return
	}
	s := mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := i; j < nr; j++ {
			s.SetSym(i, j, a.At(i, j))
		}
	}
	e = &ExactSolver{n: nr}
	if !e.chol.Factorize(s) {
		e = nil
		err = fmt.Errorf("exact solver: cholesky factorization failed, operator is not positive definite")
	}
	return
}

// Smooth overwrites x with the exact solution of A x = b.
func (e *ExactSolver) Smooth(b, x utils.Vector) error {
	return e.chol.SolveVecTo(x.V, b.V)
}
