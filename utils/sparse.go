package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is a mutable sparse matrix used during assembly; convert to CSR for
// matrix-vector work.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		"unnamed - hint: pass a name to SetName()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)     { return m.M.Dims() }
func (m DOK) At(i, j int) float64  { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix        { return m.M.T() }
func (m DOK) Set(i, j int, val float64) {
	m.M.Set(i, j, val)
}

// Accum adds val into entry (i,j), the usual finite-element assembly op.
func (m DOK) Accum(i, j int, val float64) {
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetName(name string) DOK {
	m.name = name
	return *m
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR is a compressed sparse row matrix, the immutable operator format
// consumed by the solvers.
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

// MulVec computes y = A x.
func (m CSR) MulVec(x, y Vector) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
		xd     = x.DataP()
		yd     = y.DataP()
	)
	if x.Len() != nc || y.Len() != nr {
		err := fmt.Errorf("dimension mismatch in MulVec: A is %vx%v, x is %v, y is %v\n",
			nr, nc, x.Len(), y.Len())
		panic(err)
	}
	for i := 0; i < nr; i++ {
		var sum float64
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			sum += raw.Data[jj] * xd[raw.Ind[jj]]
		}
		yd[i] = sum
	}
}

// MulVecTranspose computes y = Aᵀ x, the restriction action of an
// interpolation matrix.
func (m CSR) MulVecTranspose(x, y Vector) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
		xd     = x.DataP()
		yd     = y.DataP()
	)
	if x.Len() != nr || y.Len() != nc {
		err := fmt.Errorf("dimension mismatch in MulVecTranspose: A is %vx%v, x is %v, y is %v\n",
			nr, nc, x.Len(), y.Len())
		panic(err)
	}
	for j := range yd {
		yd[j] = 0
	}
	for i := 0; i < nr; i++ {
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			yd[raw.Ind[jj]] += raw.Data[jj] * xd[i]
		}
	}
}

// Diagonal extracts diag(A) for Jacobi scaling.
func (m CSR) Diagonal() (d Vector) {
	var (
		raw   = m.RawMatrix()
		nr, _ = m.Dims()
	)
	d = NewVector(nr)
	dd := d.DataP()
	for i := 0; i < nr; i++ {
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			if raw.Ind[jj] == i {
				dd[i] = raw.Data[jj]
				break
			}
		}
	}
	return
}
