package Poisson1D

import (
	"fmt"
	"math"

	"github.com/notargets/pmg/solver"
	"github.com/notargets/pmg/utils"
)

// Poisson assembles the p-multigrid hierarchy for −κ u″ = f on (0,1) with
// homogeneous Dirichlet boundaries and the manufactured solution
// u = sin(πx). Levels share one uniform mesh of K elements and differ by
// nodal Lagrange polynomial degree, coarsest degree first. The assembled
// per-level operators, right-hand sides, boundary conditions and the
// inter-degree interpolation matrices are exactly the inputs the solver
// hierarchy consumes.
type Poisson struct {
	K       int   // number of mesh elements
	Degrees []int // per-level polynomial degree, coarsest first
	Kappa   float64
	Specs   []solver.LevelSpec
	Interp  []solver.InterpolationOperator
	nodes   [][]float64 // per-level global node coordinates
}

func NewPoisson(K int, degrees []int, kappa float64) (p *Poisson) {
	if K < 1 || len(degrees) < 1 {
		panic(fmt.Errorf("bad problem size: K = %d, degrees = %v", K, degrees))
	}
	for i, k := range degrees {
		if k < 1 || k+1 >= len(gaussPoints) {
			panic(fmt.Errorf("unsupported polynomial degree %d", k))
		}
		if i > 0 && k <= degrees[i-1] {
			panic(fmt.Errorf("degrees must increase coarsest to finest: %v", degrees))
		}
	}
	p = &Poisson{
		K:       K,
		Degrees: degrees,
		Kappa:   kappa,
	}
	for _, k := range degrees {
		spec, x := p.assembleLevel(k)
		p.Specs = append(p.Specs, spec)
		p.nodes = append(p.nodes, x)
	}
	for i := 0; i < len(degrees)-1; i++ {
		p.Interp = append(p.Interp, p.interpolation(degrees[i], degrees[i+1]))
	}
	return
}

// forcing for u = sin(πx): f = κ π² sin(πx)
func (p *Poisson) forcing(x float64) float64 {
	return p.Kappa * math.Pi * math.Pi * math.Sin(math.Pi*x)
}

// assembleLevel builds the degree-k stiffness matrix and load vector with
// Gauss-Legendre quadrature. Dirichlet rows and columns are eliminated
// symmetrically during assembly (the boundary value is zero, so there is no
// lifting term) and the constrained diagonal is set to one.
func (p *Poisson) assembleLevel(k int) (spec solver.LevelSpec, x []float64) {
	var (
		n     = p.K*k + 1
		h     = 1 / float64(p.K)
		ref   = refNodes(k)
		xi, w = gaussRule(k + 1)
		nq    = len(xi)
		A     = utils.NewDOK(n, n)
		b     = utils.NewVector(n)
		bd    = b.DataP()
	)
	constrained := func(g int) bool { return g == 0 || g == n-1 }

	// Per-element basis values and derivatives at the quadrature points.
	phi := make([][]float64, k+1)
	dphi := make([][]float64, k+1)
	for a := 0; a <= k; a++ {
		phi[a] = make([]float64, nq)
		dphi[a] = make([]float64, nq)
		for q := 0; q < nq; q++ {
			phi[a][q] = lagrange(ref, a, xi[q])
			dphi[a][q] = lagrangeDeriv(ref, a, xi[q])
		}
	}

	for e := 0; e < p.K; e++ {
		for a := 0; a <= k; a++ {
			ga := e*k + a
			if !constrained(ga) {
				var be float64
				for q := 0; q < nq; q++ {
					xq := (float64(e) + 0.5*(xi[q]+1)) * h
					be += w[q] * p.forcing(xq) * phi[a][q]
				}
				bd[ga] += be * h / 2
			}
			for c := 0; c <= k; c++ {
				gc := e*k + c
				if constrained(ga) || constrained(gc) {
					continue
				}
				var ke float64
				for q := 0; q < nq; q++ {
					ke += w[q] * dphi[a][q] * dphi[c][q]
				}
				A.Accum(ga, gc, p.Kappa*ke*2/h)
			}
		}
	}
	A.Set(0, 0, 1)
	A.Set(n-1, n-1, 1)

	x = make([]float64, n)
	for e := 0; e < p.K; e++ {
		for a := 0; a <= k; a++ {
			x[e*k+a] = (float64(e) + 0.5*(ref[a]+1)) * h
		}
	}

	spec = solver.LevelSpec{
		Op: A.ToCSR(),
		B:  b,
		BC: func(v utils.Vector) {
			d := v.DataP()
			d[0], d[n-1] = 0, 0
		},
	}
	return
}

// interpolation assembles the nodal prolongation matrix from the degree-kc
// space to the degree-kf space on the shared mesh: row (e,a) evaluates the
// coarse element basis at the fine node. Its transpose is the restriction.
func (p *Poisson) interpolation(kc, kf int) solver.InterpolationOperator {
	var (
		nf   = p.K*kf + 1
		nc   = p.K*kc + 1
		refF = refNodes(kf)
		refC = refNodes(kc)
		P    = utils.NewDOK(nf, nc)
	)
	for e := 0; e < p.K; e++ {
		for a := 0; a <= kf; a++ {
			gf := e*kf + a
			for c := 0; c <= kc; c++ {
				val := lagrange(refC, c, refF[a])
				if math.Abs(val) > 1.e-14 {
					// Set, not Accum: element-shared nodes see the same value
					// from both sides.
					P.Set(gf, e*kc+c, val)
				}
			}
		}
	}
	return solver.NewMatrixInterpolation(P.ToCSR())
}

// Hierarchy wires the assembled levels into a calibrated solver hierarchy.
func (p *Poisson) Hierarchy(params solver.HierarchyParams) (*solver.Hierarchy, error) {
	return solver.NewHierarchy(p.Specs, p.Interp, params)
}

// Run builds the hierarchy and iterates V-cycles; the returned vector is the
// finest-level solution.
func (p *Poisson) Run(params solver.HierarchyParams, numCycles int, tol float64) (res solver.Result, u utils.Vector, err error) {
	h, err := p.Hierarchy(params)
	if err != nil {
		return
	}
	res, err = h.Solve(numCycles, tol)
	u = h.Levels[len(h.Levels)-1].U
	return
}

// Nodes returns the global node coordinates of a level.
func (p *Poisson) Nodes(level int) []float64 { return p.nodes[level] }

// ExactSolution evaluates u = sin(πx) at a level's nodes.
func (p *Poisson) ExactSolution(level int) (u utils.Vector) {
	x := p.nodes[level]
	u = utils.NewVector(len(x))
	d := u.DataP()
	for i, xi := range x {
		d[i] = math.Sin(math.Pi * xi)
	}
	return
}

// MaxNodalError is the max-norm distance between u and the exact solution at
// a level's nodes.
func (p *Poisson) MaxNodalError(level int, u utils.Vector) float64 {
	return u.Copy().Sub(p.ExactSolution(level)).MaxAbs()
}

// refNodes returns the k+1 equispaced Lagrange nodes on [-1,1].
func refNodes(k int) (r []float64) {
	r = make([]float64, k+1)
	for a := 0; a <= k; a++ {
		r[a] = -1 + 2*float64(a)/float64(k)
	}
	return
}

func lagrange(nodes []float64, j int, x float64) (l float64) {
	l = 1
	for m := range nodes {
		if m == j {
			continue
		}
		l *= (x - nodes[m]) / (nodes[j] - nodes[m])
	}
	return
}

func lagrangeDeriv(nodes []float64, j int, x float64) (d float64) {
	for m := range nodes {
		if m == j {
			continue
		}
		term := 1 / (nodes[j] - nodes[m])
		for i := range nodes {
			if i == j || i == m {
				continue
			}
			term *= (x - nodes[i]) / (nodes[j] - nodes[i])
		}
		d += term
	}
	return
}

// Gauss-Legendre rules on [-1,1], exact through degree 2n-1.
var (
	gaussPoints = [][]float64{
		{},
		{0},
		{-0.5773502691896257, 0.5773502691896257},
		{-0.7745966692414834, 0, 0.7745966692414834},
		{-0.8611363115940526, -0.3399810435848563, 0.3399810435848563, 0.8611363115940526},
		{-0.9061798459386640, -0.5384693101056831, 0, 0.5384693101056831, 0.9061798459386640},
		{-0.9324695142031521, -0.6612093864662645, -0.2386191860831969,
			0.2386191860831969, 0.6612093864662645, 0.9324695142031521},
	}
	gaussWeights = [][]float64{
		{},
		{2},
		{1, 1},
		{0.5555555555555556, 0.8888888888888889, 0.5555555555555556},
		{0.3478548451374538, 0.6521451548625461, 0.6521451548625461, 0.3478548451374538},
		{0.2369268850561891, 0.4786286704993665, 0.5688888888888889,
			0.4786286704993665, 0.2369268850561891},
		{0.1713244923791704, 0.3607615730481386, 0.4679139345726910,
			0.4679139345726910, 0.3607615730481386, 0.1713244923791704},
	}
)

func gaussRule(n int) (x, w []float64) {
	if n < 1 || n >= len(gaussPoints) {
		panic(fmt.Errorf("no %d-point gauss rule tabulated", n))
	}
	return gaussPoints[n], gaussWeights[n]
}
