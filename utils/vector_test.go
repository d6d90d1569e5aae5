package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	// Construction and accessors
	{
		v := NewVector(3, []float64{1, 2, 3})
		assert.Equal(t, 3, v.Len())
		assert.Equal(t, 2., v.AtVec(1))
		c := NewVectorConstant(4, 2.5)
		assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, c.DataP())
	}
	// Dot, Norm
	{
		a := NewVector(3, []float64{1, 2, 2})
		b := NewVector(3, []float64{2, 1, 1})
		assert.Equal(t, 6., a.Dot(b))
		assert.Equal(t, 3., a.Norm())
	}
	// AXPY, Add, Sub, Scale mutate in place and chain
	{
		v := NewVector(3, []float64{1, 1, 1})
		x := NewVector(3, []float64{1, 2, 3})
		v.AXPY(2, x)
		assert.Equal(t, []float64{3, 5, 7}, v.DataP())
		v.Sub(x).Scale(0.5)
		assert.Equal(t, []float64{1, 1.5, 2}, v.DataP())
		v.Add(x)
		assert.Equal(t, []float64{2, 3.5, 5}, v.DataP())
	}
	// Copy is independent storage, CopyFrom overwrites
	{
		v := NewVector(2, []float64{1, 2})
		c := v.Copy()
		c.Scale(10)
		assert.Equal(t, []float64{1, 2}, v.DataP())
		v.CopyFrom(c)
		assert.Equal(t, []float64{10, 20}, v.DataP())
	}
	// Apply, ElMul, ElDiv, extrema
	{
		v := NewVector(3, []float64{4, 9, 16}).Apply(math.Sqrt)
		assert.Equal(t, []float64{2, 3, 4}, v.DataP())
		v.ElMul(NewVector(3, []float64{1, 2, 3}))
		assert.Equal(t, []float64{2, 6, 12}, v.DataP())
		v.ElDiv(NewVector(3, []float64{2, 2, 2}))
		assert.Equal(t, []float64{1, 3, 6}, v.DataP())
		assert.Equal(t, 1., v.Min())
		assert.Equal(t, 6., v.Max())
		assert.Equal(t, 6., v.Scale(-1).MaxAbs())
	}
	// Length mismatch panics
	{
		v := NewVector(2)
		assert.Panics(t, func() { v.Dot(NewVector(3)) })
	}
}
