package opt

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MinMayflyPopulation is the smallest population mayfly v0.1.0 accepts
const MinMayflyPopulation = 20

// MayflyAdapter wraps the external Mayfly library as a bounded global search.
// It runs a fixed number of generations and never reports convergence, so it
// is usually chained with a local strategy.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter
func NewMayfly(maxIters, popSize int, seed int64) Minimizer {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Minimize runs Mayfly inside p.Lower/p.Upper. start is used only as the
// fallback when the search cannot run or ends worse than start.
func (m *MayflyAdapter) Minimize(p Problem, start []float64) (*Result, error) {
	dim := len(start)
	if dim == 0 {
		return nil, errors.New("start point cannot be empty")
	}
	if p.Func == nil {
		return nil, errors.New("problem has no objective")
	}
	if len(p.Lower) < dim || len(p.Upper) < dim {
		return nil, fmt.Errorf("mayfly requires bounds for all %d dimensions", dim)
	}

	g := newGuard(p.Func)

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = g.eval
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// The library takes scalar bounds, so use the enclosing box of all dimensions
	lower, upper := math.Inf(1), math.Inf(-1)
	for i := 0; i < dim; i++ {
		lower = math.Min(lower, p.Lower[i])
		upper = math.Max(upper, p.Upper[i])
	}
	config.LowerBound = lower
	config.UpperBound = upper

	config.Rand = rand.New(rand.NewSource(m.seed))

	fallback := func(status string) *Result {
		x := append([]float64(nil), start...)
		return &Result{
			X:           x,
			F:           g.eval(x),
			Iterations:  m.maxIters,
			Evaluations: g.evals,
			Status:      status,
			NonFinite:   g.nans,
		}
	}

	result, err := mayfly.Optimize(config)
	if err != nil {
		return sanitize(fallback(StatusFailure+": "+err.Error()), start, g.eval), nil
	}

	res := &Result{
		X:           append([]float64(nil), result.GlobalBest.Position...),
		F:           result.GlobalBest.Cost,
		Iterations:  m.maxIters,
		Evaluations: g.evals,
		Status:      StatusIterationLimit,
		NonFinite:   g.nans,
	}

	if startF := p.Func(start); !math.IsNaN(startF) && startF < res.F {
		res.X = append(res.X[:0], start...)
		res.F = startF
	}

	return sanitize(res, start, g.eval), nil
}
