package solver

import "errors"

var (
	// ErrBreakdown signals a degenerate CG search direction: p·Ap was zero or
	// negative, which cannot happen for a positive-definite operator.
	ErrBreakdown = errors.New("cg: search direction breakdown, operator is not positive definite")

	// ErrInsufficientIterations signals an eigenvalue estimate requested from
	// fewer than two recorded CG iterations.
	ErrInsufficientIterations = errors.New("eigs: need at least two cg iterations to form extremal estimates")

	// ErrInvalidSpectralInterval signals a Chebyshev interval with
	// lambdaMin >= lambdaMax or non-positive bounds.
	ErrInvalidSpectralInterval = errors.New("chebyshev: invalid spectral interval")
)
