package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (v Vector) {
	var d []float64
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		d = dataO[0]
	} else {
		d = make([]float64, n)
	}
	v = Vector{mat.NewVecDense(n, d)}
	return
}

func NewVectorConstant(n int, val float64) (v Vector) {
	var (
		d = make([]float64, n)
	)
	for i := range d {
		d[i] = val
	}
	v = Vector{mat.NewVecDense(n, d)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

// DataP exposes the underlying storage for fast-path kernels.
func (v Vector) DataP() []float64 { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Copy() (r Vector) {
	r = NewVector(v.Len())
	copy(r.DataP(), v.DataP())
	return
}

func (v Vector) CopyFrom(a Vector) Vector {
	v.checkLen(a)
	copy(v.DataP(), a.DataP())
	return v
}

func (v Vector) Zero() Vector {
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] = 0
	}
	return v
}

func (v Vector) Set(val float64) Vector {
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	floats.Scale(a, v.DataP())
	return v
}

func (v Vector) Add(a Vector) Vector {
	v.checkLen(a)
	floats.Add(v.DataP(), a.DataP())
	return v
}

func (v Vector) Sub(a Vector) Vector {
	v.checkLen(a)
	floats.Sub(v.DataP(), a.DataP())
	return v
}

// AXPY computes v += alpha * x in place.
func (v Vector) AXPY(alpha float64, x Vector) Vector {
	v.checkLen(x)
	floats.AddScaled(v.DataP(), alpha, x.DataP())
	return v
}

func (v Vector) ElMul(a Vector) Vector {
	v.checkLen(a)
	floats.Mul(v.DataP(), a.DataP())
	return v
}

func (v Vector) ElDiv(a Vector) Vector {
	v.checkLen(a)
	floats.Div(v.DataP(), a.DataP())
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.DataP()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Dot(a Vector) float64 {
	v.checkLen(a)
	return floats.Dot(v.DataP(), a.DataP())
}

func (v Vector) Norm() float64 {
	return floats.Norm(v.DataP(), 2)
}

func (v Vector) Min() (min float64) {
	var (
		data = v.DataP()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.DataP()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) MaxAbs() (max float64) {
	var (
		data = v.DataP()
	)
	for _, val := range data {
		if math.Abs(val) > max {
			max = math.Abs(val)
		}
	}
	return
}

func (v Vector) checkLen(a Vector) {
	if v.Len() != a.Len() {
		err := fmt.Errorf("vector length mismatch: %v vs %v\n", v.Len(), a.Len())
		panic(err)
	}
}
