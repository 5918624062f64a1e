package fit

import (
	"math"

	"github.com/cwbudde/fiducialfit/internal/boundary"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// minGuessRadius keeps the data-driven radius positive for degenerate sets
// such as a single point or a straight run of pixels.
const minGuessRadius = 0.5

// InitialGuess derives a starting circle from the point set: the centroid as
// center and half the larger bounding-box extent as radius.
// It returns an InsufficientDataError for an empty set.
func InitialGuess(points boundary.PointSet) (Params, error) {
	if points.Empty() {
		return Params{}, &InsufficientDataError{}
	}

	xs, ys := points.Coords()
	extentX := floats.Max(xs) - floats.Min(xs)
	extentY := floats.Max(ys) - floats.Min(ys)

	return Params{
		CenterX: stat.Mean(xs, nil),
		CenterY: stat.Mean(ys, nil),
		Radius:  math.Max(math.Max(extentX, extentY)/2, minGuessRadius),
	}, nil
}

// multiStarts returns n starting circles: the base guess followed by copies
// with the radius doubled each time. A short arc usually belongs to a circle
// much larger than its extent suggests.
func multiStarts(base Params, n int) []Params {
	starts := make([]Params, 0, n)
	for k := 0; k < n; k++ {
		p := base
		p.Radius = base.Radius * math.Pow(2, float64(k))
		starts = append(starts, p)
	}
	return starts
}
