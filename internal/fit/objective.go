package fit

import (
	"math"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

// Objective scores candidate circles against a fixed point set.
// Implementations are pure: Value depends only on x and the bound points.
type Objective interface {
	// Name identifies the objective in results and config
	Name() string

	// Value returns the cost to minimize for x = (a, b, r)
	Value(x []float64) float64
}

// GradientObjective is an Objective with an analytic gradient
type GradientObjective interface {
	Objective
	Gradient(grad, x []float64)
}

// Objective names accepted by NewObjective
const (
	ObjectiveL1      = "l1"
	ObjectiveSquared = "squared"
)

// L1Objective is the robust circle cost
//
//	Value(a, b, r) = sum_i |(x_i-a)^2 + (y_i-b)^2 - r^2|
//
// The maximized score is its negation. The absolute value makes the cost
// non-smooth wherever the circle passes exactly through a point.
type L1Objective struct {
	xs, ys []float64
}

// NewL1Objective copies the point coordinates
func NewL1Objective(points boundary.PointSet) *L1Objective {
	xs, ys := points.Coords()
	return &L1Objective{xs: xs, ys: ys}
}

// Name returns "l1"
func (o *L1Objective) Name() string {
	return ObjectiveL1
}

// Value returns the sum of absolute squared-distance residuals
func (o *L1Objective) Value(x []float64) float64 {
	a, b, r := x[0], x[1], x[2]
	r2 := r * r

	var sum float64
	for i := range o.xs {
		dx := o.xs[i] - a
		dy := o.ys[i] - b
		sum += math.Abs(dx*dx + dy*dy - r2)
	}
	return sum
}

// Score returns the maximized form of the objective, -Value(p)
func (o *L1Objective) Score(p Params) float64 {
	return -o.Value(p.Vector())
}

// SquaredObjective is the least-squares variant
//
//	Value(a, b, r) = sum_i ((x_i-a)^2 + (y_i-b)^2 - r^2)^2
//
// It is smooth and has an analytic gradient.
type SquaredObjective struct {
	xs, ys []float64
}

// NewSquaredObjective copies the point coordinates
func NewSquaredObjective(points boundary.PointSet) *SquaredObjective {
	xs, ys := points.Coords()
	return &SquaredObjective{xs: xs, ys: ys}
}

// Name returns "squared"
func (o *SquaredObjective) Name() string {
	return ObjectiveSquared
}

// Value returns the sum of squared residuals
func (o *SquaredObjective) Value(x []float64) float64 {
	a, b, r := x[0], x[1], x[2]
	r2 := r * r

	var sum float64
	for i := range o.xs {
		dx := o.xs[i] - a
		dy := o.ys[i] - b
		e := dx*dx + dy*dy - r2
		sum += e * e
	}
	return sum
}

// Gradient writes dValue/d(a, b, r) into grad
func (o *SquaredObjective) Gradient(grad, x []float64) {
	a, b, r := x[0], x[1], x[2]
	r2 := r * r

	var ga, gb, gr float64
	for i := range o.xs {
		dx := o.xs[i] - a
		dy := o.ys[i] - b
		e := dx*dx + dy*dy - r2
		ga += -4 * e * dx
		gb += -4 * e * dy
		gr += -4 * e * r
	}
	grad[0] = ga
	grad[1] = gb
	grad[2] = gr
}

// NewObjective binds the named objective to points
func NewObjective(name string, points boundary.PointSet) (Objective, error) {
	switch name {
	case ObjectiveL1, "":
		return NewL1Objective(points), nil
	case ObjectiveSquared:
		return NewSquaredObjective(points), nil
	default:
		return nil, &InvalidConfigurationError{Field: "Objective", Reason: "unknown objective " + name}
	}
}
