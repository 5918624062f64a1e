package opt

import (
	"errors"
	"fmt"
)

// Chain runs several minimizers back to back, each starting from the
// previous best. Iterations and evaluations add up; convergence comes from
// the last stage.
type Chain struct {
	stages []Minimizer
}

// NewChain creates a chained minimizer
func NewChain(stages ...Minimizer) Minimizer {
	return &Chain{stages: stages}
}

// Minimize runs each stage in order
func (c *Chain) Minimize(p Problem, start []float64) (*Result, error) {
	if len(c.stages) == 0 {
		return nil, errors.New("chain has no stages")
	}

	x := start
	total := &Result{}
	for i, stage := range c.stages {
		r, err := stage.Minimize(p, x)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		total.Iterations += r.Iterations
		total.Evaluations += r.Evaluations
		total.NonFinite += r.NonFinite
		total.X = r.X
		total.F = r.F
		total.Converged = r.Converged
		total.Status = r.Status
		x = r.X
	}
	return total, nil
}
