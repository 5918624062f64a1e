package boundary

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBoundary is returned when no boundary point survives the margin filter
	ErrNoBoundary = errors.New("no boundary points found")

	// ErrNegativeMargin is returned for margin < 0
	ErrNegativeMargin = errors.New("margin cannot be negative")
)

// Side selects which pixel of a foreground/background transition is kept.
// The two choices produce boundaries offset by one pixel.
type Side string

const (
	// SideForeground keeps foreground pixels that touch a background neighbor.
	// The boundary lies just inside the shape.
	SideForeground Side = "foreground"

	// SideBackground keeps background pixels that touch a foreground neighbor.
	// The boundary lies just outside the shape.
	SideBackground Side = "background"
)

// ParseSide converts a flag or config value to a Side
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideForeground, SideBackground:
		return Side(s), nil
	case "":
		return SideForeground, nil
	default:
		return "", fmt.Errorf("unknown boundary side: %q (must be foreground or background)", s)
	}
}

// Options controls boundary extraction
type Options struct {
	// Margin drops points closer than Margin pixels to any grid edge
	Margin int

	// Side picks the transition variant, SideForeground when empty
	Side Side
}

// DefaultOptions returns margin 1 on the foreground side
func DefaultOptions() Options {
	return Options{
		Margin: 1,
		Side:   SideForeground,
	}
}

// neighbors are the four axis-aligned offsets
var neighbors = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Extract returns the boundary pixels of grid.
//
// Neighbor lookups are bounds-checked: a neighbor outside the grid counts as
// background, so a shape touching one edge never produces points at the
// opposite edge. Points with x or y closer than opts.Margin to an edge are
// dropped on both axes alike. Output is in row-major order, so repeated calls
// on the same grid return identical sets.
func Extract(grid Grid, opts Options) (PointSet, error) {
	if opts.Margin < 0 {
		return PointSet{}, ErrNegativeMargin
	}
	side := opts.Side
	if side == "" {
		side = SideForeground
	}
	if side != SideForeground && side != SideBackground {
		return PointSet{}, fmt.Errorf("unknown boundary side: %q", side)
	}
	if grid == nil {
		return PointSet{}, ErrNoBoundary
	}

	width, height := grid.Size()
	points := make([]Point, 0)

	for y := opts.Margin; y <= height-1-opts.Margin; y++ {
		for x := opts.Margin; x <= width-1-opts.Margin; x++ {
			if isBoundary(grid, x, y, width, height, side) {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	if len(points) == 0 {
		return PointSet{width: width, height: height}, ErrNoBoundary
	}

	return PointSet{points: points, width: width, height: height}, nil
}

// isBoundary checks the 4-neighborhood of (x, y)
func isBoundary(grid Grid, x, y, width, height int, side Side) bool {
	self := grid.Foreground(x, y)
	if (side == SideForeground) != self {
		return false
	}
	for _, d := range neighbors {
		nx, ny := x+d[0], y+d[1]
		if foregroundAt(grid, nx, ny, width, height) != self {
			return true
		}
	}
	return false
}

// foregroundAt treats everything outside the grid as background
func foregroundAt(grid Grid, x, y, width, height int) bool {
	if x < 0 || y < 0 || x >= width || y >= height {
		return false
	}
	return grid.Foreground(x, y)
}
