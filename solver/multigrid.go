package solver

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/pmg/utils"
	"gonum.org/v1/gonum/mat"
)

type LevelRole uint8

const (
	CoarseLevel LevelRole = iota // exact solve, index 0
	IntermediateLevel
	FinestLevel // carries the caller's rhs and initial guess
)

// Level owns one discretization level of the hierarchy. All vectors are
// allocated once at setup and reused across every V-cycle; U is mutated in
// place by smoothing and correction, R and Du are per-cycle scratch.
type Level struct {
	Index    int
	Role     LevelRole
	Op       Operator
	B        utils.Vector
	U        utils.Vector
	R        utils.Vector
	Du       utils.Vector
	Smoother Smoother
	BC       func(utils.Vector) // boundary-condition application, may be nil
}

// LevelSpec is the per-level input the external assembly layer supplies.
type LevelSpec struct {
	Op Operator
	B  utils.Vector
	BC func(utils.Vector)
}

type SmootherType uint8

const (
	ChebyshevSmoothing SmootherType = iota
	CGSmoothing
)

// HierarchyParams selects and calibrates the per-level smoothers.
type HierarchyParams struct {
	SmootherType SmootherType
	Degree       int // Chebyshev degree, or CG smoother iteration budget
	CalibIters   int // iteration budget of the throwaway calibration CG run
	CalibRTol    float64
	Jacobi       bool
	Verbose      bool
}

func DefaultHierarchyParams() HierarchyParams {
	return HierarchyParams{
		SmootherType: ChebyshevSmoothing,
		Degree:       2,
		CalibIters:   20,
		CalibRTol:    1.e-6,
		Jacobi:       true,
	}
}

// Hierarchy owns the ordered levels (coarsest first) and the interpolation
// operators between consecutive pairs, and drives repeated V-cycles against
// the finest-level system.
type Hierarchy struct {
	Levels  []*Level
	Interp  []InterpolationOperator
	Verbose bool
}

// NewHierarchy builds the level records and calibrates each non-coarse
// level's smoother: a throwaway Jacobi-CG solve against a ones probe vector
// feeds the eigenvalue estimator, and the Chebyshev interval is taken as
// (0.1·λmax, 1.1·λmax); the upper bound is widened 10% to guard against
// under-estimation from a short calibration run. The coarse operator is
// factorized once.
func NewHierarchy(specs []LevelSpec, interp []InterpolationOperator, params HierarchyParams) (h *Hierarchy, err error) {
	if len(specs) < 2 {
		err = fmt.Errorf("hierarchy needs at least two levels, have %d", len(specs))
		return
	}
	if len(interp) != len(specs)-1 {
		err = fmt.Errorf("have %d levels but %d interpolation operators, need %d",
			len(specs), len(interp), len(specs)-1)
		return
	}
	h = &Hierarchy{
		Levels:  make([]*Level, len(specs)),
		Interp:  interp,
		Verbose: params.Verbose,
	}
	for i, spec := range specs {
		n, _ := spec.Op.Dims()
		lv := &Level{
			Index: i,
			Role:  IntermediateLevel,
			Op:    spec.Op,
			B:     spec.B,
			U:     utils.NewVector(n),
			R:     utils.NewVector(n),
			Du:    utils.NewVector(n),
			BC:    spec.BC,
		}
		switch i {
		case 0:
			lv.Role = CoarseLevel
		case len(specs) - 1:
			lv.Role = FinestLevel
		}
		if lv.Role == CoarseLevel {
			a, ok := spec.Op.(mat.Matrix)
			if !ok {
				err = fmt.Errorf("level 0: operator does not expose entries for the exact solve")
				return nil, err
			}
			if lv.Smoother, err = NewExactSolver(a); err != nil {
				return nil, fmt.Errorf("level 0: %w", err)
			}
		} else {
			if lv.Smoother, err = calibrateSmoother(spec.Op, params); err != nil {
				return nil, fmt.Errorf("level %d: %w", i, err)
			}
		}
		h.Levels[i] = lv
	}
	return
}

func calibrateSmoother(A Operator, params HierarchyParams) (Smoother, error) {
	if params.SmootherType == CGSmoothing {
		return NewCGSmoother(A, params.Degree, params.Jacobi), nil
	}
	var (
		n, _  = A.Dims()
		probe = utils.NewVectorConstant(n, 1)
		x     = utils.NewVector(n)
		cg    = CGSolver{
			MaxIters: params.CalibIters,
			RTol:     params.CalibRTol,
			Jacobi:   true,
		}
	)
	stats, err := cg.Solve(A, probe, x)
	if err != nil {
		return nil, fmt.Errorf("calibration cg: %w", err)
	}
	_, lambdaMax, err := EstimateEigs(stats.Alphas, stats.Betas)
	if err != nil {
		return nil, err
	}
	if params.Verbose {
		fmt.Printf("calibration: %d cg iterations, lambda_max estimate = %v\n",
			stats.Iterations, lambdaMax)
	}
	return NewChebyshev(A, params.Degree, 0.1*lambdaMax, 1.1*lambdaMax, params.Jacobi)
}

// Result annotates a hierarchy solve. Budget exhaustion without meeting the
// tolerance is reported here, not as an error; the caller decides whether to
// continue.
type Result struct {
	Converged       bool
	Cycles          int
	RNorm0          float64
	ResidualHistory []float64 // finest-level relative residual, one per cycle
}

// Solve runs V-cycles until the finest-level residual norm, relative to its
// value on entry, falls below tol or numCycles is exhausted. The finest
// level's U carries the initial guess in and the solution out; every other
// level's U holds only the current cycle's correction and is zeroed at the
// top of each cycle.
func (h *Hierarchy) Solve(numCycles int, tol float64) (res Result, err error) {
	var (
		nl   = len(h.Levels)
		fine = h.Levels[nl-1]
	)
	res.RNorm0 = h.residualNorm(fine)
	res.ResidualHistory = make([]float64, 0, numCycles)
	if res.RNorm0 == 0 {
		res.Converged = true
		return
	}

	for cycle := 0; cycle < numCycles; cycle++ {
		if h.Verbose {
			fmt.Printf("Iteration %d:\n", cycle+1)
		}
		for _, lv := range h.Levels[:nl-1] {
			lv.U.Zero()
		}

		// Down-sweep: smooth, form the residual, restrict it into the next
		// coarser level's right-hand side.
		for i := nl - 1; i >= 1; i-- {
			lv := h.Levels[i]
			if err = lv.Smoother.Smooth(lv.B, lv.U); err != nil {
				err = fmt.Errorf("cycle %d, level %d down-sweep: %w", cycle+1, i, err)
				res.Cycles = cycle
				return
			}
			h.residual(lv)
			h.levelPrint(i, fmt.Sprintf("After initial smooth: residual norm = %v", lv.R.Norm()))
			h.Interp[i-1].Restrict(lv.R, h.Levels[i-1].B)
		}

		// Coarse solve. Restriction just overwrote b_0, so level 0's boundary
		// condition is reapplied first. Intermediate levels are left alone,
		// matching the assembly layer's restriction operators which keep
		// constrained rows zero.
		coarse := h.Levels[0]
		if coarse.BC != nil {
			coarse.BC(coarse.B)
		}
		if err = coarse.Smoother.Smooth(coarse.B, coarse.U); err != nil {
			err = fmt.Errorf("cycle %d, coarse solve: %w", cycle+1, err)
			res.Cycles = cycle
			return
		}
		h.levelPrint(0, fmt.Sprintf("Correction norm = %v", coarse.U.Norm()))

		// Up-sweep: prolong the coarse correction, accumulate, re-smooth.
		for i := 0; i < nl-1; i++ {
			next := h.Levels[i+1]
			h.Interp[i].Prolong(h.Levels[i].U, next.Du)
			next.U.Add(next.Du)
			if err = next.Smoother.Smooth(next.B, next.U); err != nil {
				err = fmt.Errorf("cycle %d, level %d up-sweep: %w", cycle+1, i+1, err)
				res.Cycles = cycle
				return
			}
			if h.Verbose {
				h.residual(next)
				h.levelPrint(i+1, fmt.Sprintf("After final smooth:   residual norm = %v", next.R.Norm()))
			}
		}

		rel := h.residualNorm(fine) / res.RNorm0
		res.ResidualHistory = append(res.ResidualHistory, rel)
		res.Cycles = cycle + 1
		if h.Verbose {
			fmt.Printf("    Relative residual norm = %v\n", rel)
		}
		if rel < tol {
			res.Converged = true
			break
		}
	}
	return
}

// residual recomputes lv.R = lv.B - A lv.U.
func (h *Hierarchy) residual(lv *Level) {
	lv.Op.MulVec(lv.U, lv.R)
	lv.R.Scale(-1).Add(lv.B)
}

func (h *Hierarchy) residualNorm(lv *Level) float64 {
	h.residual(lv)
	return lv.R.Norm()
}

func (h *Hierarchy) levelPrint(level int, s string) {
	if !h.Verbose {
		return
	}
	indent := strings.Repeat("    ", len(h.Levels)-level)
	fmt.Printf("%sLevel %d: %s\n", indent, level, s)
}

// ANorm computes sqrt(xᵀ A x), the energy norm CG minimizes the error in.
func ANorm(A Operator, x utils.Vector) float64 {
	n, _ := A.Dims()
	y := utils.NewVector(n)
	A.MulVec(x, y)
	return math.Sqrt(x.Dot(y))
}
