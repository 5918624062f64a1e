package opt

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// NelderMead is the downhill-simplex strategy backed by gonum/optimize.
// After the simplex collapses it may be rebuilt around the best vertex up to
// Restarts times, which recovers from premature collapse on non-smooth
// objectives. All rounds share the MaxIterations budget.
type NelderMead struct {
	settings    Settings
	simplexSize float64
	restarts    int
}

// NewNelderMead creates a simplex minimizer.
// simplexSize is the initial step along each coordinate; restarts may be 0.
func NewNelderMead(settings Settings, simplexSize float64, restarts int) Minimizer {
	if restarts < 0 {
		restarts = 0
	}
	return &NelderMead{
		settings:    settings,
		simplexSize: simplexSize,
		restarts:    restarts,
	}
}

// Minimize runs the simplex search from start
func (nm *NelderMead) Minimize(p Problem, start []float64) (*Result, error) {
	if len(start) == 0 {
		return nil, errors.New("start point cannot be empty")
	}
	if p.Func == nil {
		return nil, errors.New("problem has no objective")
	}

	g := newGuard(p.Func)
	x := append([]float64(nil), start...)
	best := &Result{X: x, F: math.Inf(1), Status: StatusIterationLimit}
	remaining := nm.settings.MaxIterations
	settings := numberedTrace(nm.settings)

	for round := 0; round <= nm.restarts && remaining > 0; round++ {
		method := &optimize.NelderMead{SimplexSize: nm.simplexSize}
		r, err := runGonum(optimize.Problem{Func: g.eval}, best.X, settings, remaining, method)
		if r == nil {
			return nil, fmt.Errorf("nelder-mead failed: %w", err)
		}

		previous := best.F
		best.Iterations += r.Stats.MajorIterations
		remaining -= r.Stats.MajorIterations

		if r.F <= best.F {
			best.X = append(best.X[:0], r.X...)
			best.F = r.F
		}

		best.Converged, best.Status = classify(r.Status, err)
		slog.Debug("Nelder-Mead round finished",
			"round", round,
			"iterations", r.Stats.MajorIterations,
			"cost", r.F,
			"status", best.Status,
		)

		if !best.Converged {
			break
		}
		if round > 0 && previous-r.F <= nm.settings.Tolerance*(1+math.Abs(r.F)) {
			break
		}
	}

	best.Evaluations = g.evals
	best.NonFinite = g.nans
	return sanitize(best, start, g.eval), nil
}

// BFGS is the quasi-Newton strategy backed by gonum/optimize.
// The problem must supply a gradient.
type BFGS struct {
	settings Settings
}

// NewBFGS creates a gradient-based minimizer
func NewBFGS(settings Settings) Minimizer {
	return &BFGS{settings: settings}
}

// Minimize runs BFGS from start
func (b *BFGS) Minimize(p Problem, start []float64) (*Result, error) {
	if len(start) == 0 {
		return nil, errors.New("start point cannot be empty")
	}
	if p.Func == nil || p.Grad == nil {
		return nil, errors.New("bfgs requires an objective with a gradient")
	}

	g := newGuard(p.Func)
	problem := optimize.Problem{Func: g.eval, Grad: p.Grad}

	r, err := runGonum(problem, start, numberedTrace(b.settings), b.settings.MaxIterations, &optimize.BFGS{})
	if r == nil {
		return nil, fmt.Errorf("bfgs failed: %w", err)
	}

	converged, status := classify(r.Status, err)
	res := &Result{
		X:           append([]float64(nil), r.X...),
		F:           r.F,
		Iterations:  r.Stats.MajorIterations,
		Evaluations: g.evals,
		Converged:   converged,
		Status:      status,
		NonFinite:   g.nans,
	}
	return sanitize(res, start, g.eval), nil
}

// numberedTrace numbers trace calls across all rounds of one run
func numberedTrace(s Settings) Settings {
	if s.Trace == nil {
		return s
	}
	trace := s.Trace
	n := 0
	s.Trace = func(_ int, x []float64, f float64) {
		n++
		trace(n, x, f)
	}
	return s
}

// runGonum wires the convergence tracker and iteration cap into gonum
func runGonum(problem optimize.Problem, start []float64, s Settings, maxIters int, method optimize.Method) (*optimize.Result, error) {
	settings := &optimize.Settings{
		MajorIterations: maxIters,
		Converger:       NewConvergenceTracker(s),
	}

	return optimize.Minimize(problem, append([]float64(nil), start...), settings, method)
}

// classify maps a gonum termination status to our convergence flag
func classify(status optimize.Status, err error) (bool, string) {
	if err != nil {
		return false, StatusFailure + ": " + err.Error()
	}
	switch status {
	case optimize.Success,
		optimize.FunctionConvergence,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge,
		optimize.FunctionThreshold:
		return true, StatusConverged
	case optimize.IterationLimit,
		optimize.FunctionEvaluationLimit,
		optimize.RuntimeLimit:
		return false, StatusIterationLimit
	default:
		return false, status.String()
	}
}
