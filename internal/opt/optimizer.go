package opt

import (
	"math"
)

// Problem is a scalar objective over a fixed-size real vector
type Problem struct {
	// Func evaluates the objective to minimize
	Func func(x []float64) float64

	// Grad writes the gradient of Func at x into grad (optional)
	Grad func(grad, x []float64)

	// Lower, Upper bound the search box for strategies that need one (optional)
	Lower []float64
	Upper []float64
}

// Settings holds the termination controls shared by all strategies
type Settings struct {
	// MaxIterations caps major iterations; must be positive
	MaxIterations int

	// Tolerance is the relative threshold below which an iteration counts as stale
	Tolerance float64

	// Patience is the number of consecutive stale iterations that means converged
	Patience int

	// Trace, if set, receives the best point after every major iteration
	Trace func(iteration int, x []float64, f float64)
}

// DefaultSettings returns settings suited to pixel-scale circle fits
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: 10000,
		Tolerance:     1e-10,
		Patience:      200,
	}
}

// Status values reported in Result.Status
const (
	StatusConverged      = "Converged"
	StatusIterationLimit = "IterationLimit"
	StatusNonFinite      = "NonFinite"
	StatusFailure        = "Failure"
)

// Result is the outcome of a minimization run
type Result struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Converged   bool
	Status      string

	// NonFinite counts objective evaluations that returned NaN
	NonFinite int
}

// Minimizer drives a Problem from a starting point toward a local minimum
type Minimizer interface {
	// Minimize never returns NaN in Result.X or Result.F; a run that cannot
	// produce a finite point reports Converged=false with Status NonFinite.
	Minimize(p Problem, start []float64) (*Result, error)
}

// guard replaces NaN with +Inf so simplex ordering stays well defined
type guard struct {
	fn    func([]float64) float64
	evals int
	nans  int
}

func newGuard(fn func([]float64) float64) *guard {
	return &guard{fn: fn}
}

func (g *guard) eval(x []float64) float64 {
	g.evals++
	f := g.fn(x)
	if math.IsNaN(f) {
		g.nans++
		return math.Inf(1)
	}
	return f
}

// finite reports whether f and every element of x are finite
func finite(x []float64, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sanitize converts a non-finite outcome into an exhausted result at start
func sanitize(res *Result, start []float64, fn func([]float64) float64) *Result {
	if finite(res.X, res.F) {
		return res
	}
	x := append([]float64(nil), start...)
	f := fn(x)
	if math.IsNaN(f) {
		f = math.Inf(1)
	}
	res.X = x
	res.F = f
	res.Converged = false
	res.Status = StatusNonFinite
	return res
}
