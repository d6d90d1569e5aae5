package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// EstimateEigs produces estimates of the extreme eigenvalues of the
// (preconditioned) operator a CG run solved against, from the ordered
// alpha/beta sequences that run recorded. The coefficients define an m×m
// symmetric tridiagonal matrix whose eigenvalues are the Ritz values of the
// operator (see Saad, Iterative Methods for Sparse Linear Systems, 6.7.3);
// the smallest and largest are returned.
//
// The matrix is ephemeral: it exists only for the duration of this call.
func EstimateEigs(alphas, betas []float64) (lambdaMin, lambdaMax float64, err error) {
	m := len(alphas)
	if m < 2 || len(betas) < m {
		err = fmt.Errorf("have %d alphas, %d betas: %w", len(alphas), len(betas), ErrInsufficientIterations)
		return
	}
	T := mat.NewSymDense(m, nil)
	T.SetSym(0, 0, 1/alphas[0])
	for i := 1; i < m; i++ {
		T.SetSym(i, i, 1/alphas[i]+betas[i-1]/alphas[i-1])
		T.SetSym(i-1, i, math.Sqrt(betas[i-1])/alphas[i-1])
	}
	var es mat.EigenSym
	if !es.Factorize(T, false) {
		err = fmt.Errorf("eigs: tridiagonal eigendecomposition failed for m = %d", m)
		return
	}
	vals := es.Values(nil) // ascending
	lambdaMin, lambdaMax = vals[0], vals[m-1]
	return
}
