package solver

import (
	"github.com/notargets/pmg/utils"
)

// InterpolationOperator connects a pair of adjacent hierarchy levels: the
// forward action prolongs a coarse vector to the fine space, the transpose
// action restricts a fine residual to a coarse right-hand side. Restriction
// being exactly the transpose of prolongation is a structural property the
// V-cycle depends on.
type InterpolationOperator interface {
	Dims() (fine, coarse int)
	Prolong(uc, uf utils.Vector)  // uf = P uc
	Restrict(rf, bc utils.Vector) // bc = Pᵀ rf
}

// MatrixInterpolation is an InterpolationOperator backed by an assembled
// sparse matrix; the externally constructed interpolation matrices between
// consecutive polynomial-degree spaces arrive in this form.
type MatrixInterpolation struct {
	P utils.CSR
}

func NewMatrixInterpolation(P utils.CSR) MatrixInterpolation {
	return MatrixInterpolation{P: P}
}

func (m MatrixInterpolation) Dims() (fine, coarse int) { return m.P.Dims() }

func (m MatrixInterpolation) Prolong(uc, uf utils.Vector) {
	m.P.MulVec(uc, uf)
}

func (m MatrixInterpolation) Restrict(rf, bc utils.Vector) {
	m.P.MulVecTranspose(rf, bc)
}
