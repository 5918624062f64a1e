package fit

import (
	"fmt"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

// State is a stage of the fitting state machine:
// Unfit -> Extracting -> (Failed | Fitting) -> (Converged | Exhausted)
type State string

const (
	StateUnfit      State = "unfit"
	StateExtracting State = "extracting"
	StateFailed     State = "failed"
	StateFitting    State = "fitting"
	StateConverged  State = "converged"
	StateExhausted  State = "exhausted"
)

// Status values for results rejected after minimization
const (
	StatusNonPositiveRadius = "NonPositiveRadius"
)

// Result is a fitted circle plus convergence diagnostics
type Result struct {
	Params

	// Converged is false when the iteration cap was hit or the run degenerated
	Converged bool `json:"converged"`

	// Iterations counts major optimizer iterations
	Iterations int `json:"iterations"`

	// Evaluations counts objective evaluations
	Evaluations int `json:"evaluations"`

	// FinalObjective is the minimized cost at Params (the unnegated sum)
	FinalObjective float64 `json:"finalObjective"`

	// Status is the optimizer's termination reason
	Status string `json:"status"`

	// Points is the number of boundary points fitted
	Points int `json:"points"`

	// Start is the initial guess the winning run started from
	Start Params `json:"start"`

	Strategy  string `json:"strategy"`
	Objective string `json:"objective"`

	// Boundary is the point set the circle was fitted to
	Boundary boundary.PointSet `json:"-"`
}

// State returns StateConverged or StateExhausted
func (r *Result) State() State {
	if r.Converged {
		return StateConverged
	}
	return StateExhausted
}

// Score returns the maximized form of the objective, -FinalObjective
func (r *Result) Score() float64 {
	return -r.FinalObjective
}

// better reports whether r should be preferred over other: lower objective,
// then fewer iterations, then smaller radius.
func (r *Result) better(other *Result) bool {
	if other == nil {
		return true
	}
	if r.FinalObjective != other.FinalObjective {
		return r.FinalObjective < other.FinalObjective
	}
	if r.Iterations != other.Iterations {
		return r.Iterations < other.Iterations
	}
	return r.Radius < other.Radius
}

func (r *Result) String() string {
	return fmt.Sprintf("%s converged=%t iterations=%d objective=%.6g", r.Params.String(), r.Converged, r.Iterations, r.FinalObjective)
}
