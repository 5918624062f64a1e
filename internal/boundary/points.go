package boundary

// Point is an integer pixel coordinate
type Point struct {
	X, Y int
}

// PointSet is an immutable set of boundary points produced by Extract.
// The zero value is an empty set.
type PointSet struct {
	points []Point
	width  int
	height int
}

// NewPointSet builds a set from caller-supplied points (copied)
func NewPointSet(points []Point) PointSet {
	return PointSet{points: append([]Point(nil), points...)}
}

// Len returns the number of points
func (ps PointSet) Len() int {
	return len(ps.points)
}

// Empty reports whether the set has no points
func (ps PointSet) Empty() bool {
	return len(ps.points) == 0
}

// Points returns a copy of the points
func (ps PointSet) Points() []Point {
	return append([]Point(nil), ps.points...)
}

// At returns the i-th point
func (ps PointSet) At(i int) Point {
	return ps.points[i]
}

// GridSize returns the size of the grid the set was extracted from (0, 0 if unknown)
func (ps PointSet) GridSize() (int, int) {
	return ps.width, ps.height
}

// Coords returns the coordinates as two fresh float64 slices
func (ps PointSet) Coords() (xs, ys []float64) {
	xs = make([]float64, len(ps.points))
	ys = make([]float64, len(ps.points))
	for i, p := range ps.points {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}
	return xs, ys
}

// Contains reports whether p is in the set
func (ps PointSet) Contains(p Point) bool {
	for _, q := range ps.points {
		if q == p {
			return true
		}
	}
	return false
}

// Equal compares two sets ignoring order
func (ps PointSet) Equal(other PointSet) bool {
	if len(ps.points) != len(other.points) {
		return false
	}
	seen := make(map[Point]int, len(ps.points))
	for _, p := range ps.points {
		seen[p]++
	}
	for _, p := range other.points {
		if seen[p] == 0 {
			return false
		}
		seen[p]--
	}
	return true
}
