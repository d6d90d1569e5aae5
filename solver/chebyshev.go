package solver

import (
	"fmt"

	"github.com/notargets/pmg/utils"
)

// Chebyshev is a fixed-degree polynomial smoother for A x = b over a believed
// spectral interval of A (of inv(diag(A))·A under Jacobi scaling). It runs
// exactly Degree sweeps of the first-kind three-term Chebyshev recurrence and
// never checks convergence: a multigrid smoother needs cost-certainty, not
// convergence-certainty.
type Chebyshev struct {
	A                    Operator
	Degree               int
	LambdaMin, LambdaMax float64
	Jacobi               bool
	Verbose              bool
	dinv                 utils.Vector
	r, d, y, z           utils.Vector // per-instance scratch, reused across sweeps
}

func NewChebyshev(A Operator, degree int, lambdaMin, lambdaMax float64, jacobi bool) (c *Chebyshev, err error) {
	if lambdaMin >= lambdaMax || lambdaMin <= 0 {
		err = fmt.Errorf("interval (%v, %v): %w", lambdaMin, lambdaMax, ErrInvalidSpectralInterval)
		return
	}
	if degree < 1 {
		err = fmt.Errorf("chebyshev: degree must be at least 1, have %d", degree)
		return
	}
	n, _ := A.Dims()
	c = &Chebyshev{
		A:         A,
		Degree:    degree,
		LambdaMin: lambdaMin,
		LambdaMax: lambdaMax,
		Jacobi:    jacobi,
		r:         utils.NewVector(n),
		d:         utils.NewVector(n),
		y:         utils.NewVector(n),
		z:         utils.NewVector(n),
	}
	if jacobi {
		c.dinv = A.Diagonal().Apply(func(v float64) float64 { return 1 / v })
	}
	return
}

// Smooth performs exactly Degree sweeps toward A x = b, updating x in place.
func (c *Chebyshev) Smooth(b, x utils.Vector) error {
	var (
		theta = 0.5 * (c.LambdaMax + c.LambdaMin)
		delta = 0.5 * (c.LambdaMax - c.LambdaMin)
		sigma = theta / delta
		rho   = 1 / sigma
	)
	// r = b - A x
	c.A.MulVec(x, c.y)
	c.r.CopyFrom(b).Sub(c.y)

	c.z.CopyFrom(c.r)
	if c.Jacobi {
		c.z.ElMul(c.dinv)
	}
	c.d.CopyFrom(c.z).Scale(1 / theta)

	for k := 0; k < c.Degree; k++ {
		x.Add(c.d)
		c.A.MulVec(c.d, c.y)
		c.r.Sub(c.y)

		c.z.CopyFrom(c.r)
		if c.Jacobi {
			c.z.ElMul(c.dinv)
		}
		rhoNew := 1 / (2*sigma - rho)
		// d = rhoNew*rho*d + (2*rhoNew/delta)*z
		c.d.Scale(rhoNew * rho).AXPY(2*rhoNew/delta, c.z)
		rho = rhoNew

		if c.Verbose {
			fmt.Printf("chebyshev sweep %d: residual %v\n", k+1, c.r.Norm())
		}
	}
	return nil
}
