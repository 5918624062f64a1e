package opt

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ConvergenceTracker watches the best location per major iteration and
// reports convergence once Patience consecutive iterations were stale.
// An iteration is stale when the best objective improved by no more than
// Tolerance*(1+|f|) and the best point moved no more than Tolerance*(1+|x|).
//
// It satisfies optimize.Converger.
type ConvergenceTracker struct {
	tolerance float64
	patience  int
	trace     func(int, []float64, float64)

	iteration  int
	staleCount int
	bestCost   float64
	lastX      []float64
	history    []float64
}

var _ optimize.Converger = (*ConvergenceTracker)(nil)

// NewConvergenceTracker creates a tracker from the run settings
func NewConvergenceTracker(s Settings) *ConvergenceTracker {
	patience := s.Patience
	if patience < 1 {
		patience = 1
	}
	return &ConvergenceTracker{
		tolerance: s.Tolerance,
		patience:  patience,
		trace:     s.Trace,
		bestCost:  math.Inf(1),
	}
}

// Init resets the tracker for a new run of dimension dim
func (c *ConvergenceTracker) Init(dim int) {
	c.iteration = 0
	c.staleCount = 0
	c.bestCost = math.Inf(1)
	c.lastX = make([]float64, 0, dim)
	c.history = c.history[:0]
}

// Converged records loc and returns optimize.FunctionConvergence when done
func (c *ConvergenceTracker) Converged(loc *optimize.Location) optimize.Status {
	c.iteration++
	c.history = append(c.history, loc.F)

	if c.trace != nil {
		c.trace(c.iteration, loc.X, loc.F)
	}

	// First iteration only seeds the reference point
	if len(c.lastX) == 0 {
		c.bestCost = loc.F
		c.lastX = append(c.lastX, loc.X...)
		return optimize.NotTerminated
	}

	improvement := c.bestCost - loc.F
	if math.IsInf(c.bestCost, 1) && !math.IsInf(loc.F, 1) {
		improvement = math.Inf(1)
	}
	displacement := floats.Distance(loc.X, c.lastX, 2)

	fTol := c.tolerance * (1 + math.Abs(loc.F))
	xTol := c.tolerance * (1 + floats.Norm(loc.X, 2))

	if improvement > fTol || displacement > xTol {
		c.staleCount = 0
	} else {
		c.staleCount++
	}

	if loc.F < c.bestCost {
		c.bestCost = loc.F
	}
	copy(c.lastX, loc.X)

	if c.staleCount >= c.patience {
		slog.Debug("Convergence detected",
			"iteration", c.iteration,
			"stale_count", c.staleCount,
			"best_cost", c.bestCost,
		)
		return optimize.FunctionConvergence
	}
	return optimize.NotTerminated
}

// BestCost returns the best cost seen so far
func (c *ConvergenceTracker) BestCost() float64 {
	return c.bestCost
}

// History returns the best cost after each major iteration
func (c *ConvergenceTracker) History() []float64 {
	return append([]float64{}, c.history...)
}

// StaleCount returns the current number of iterations without progress
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}

// Iterations returns the number of major iterations observed
func (c *ConvergenceTracker) Iterations() int {
	return c.iteration
}
