package fit

import "github.com/cwbudde/fiducialfit/internal/boundary"

// Centroid returns the mean position of the foreground pixels of grid.
// It locates a fiducial that is fully visible without any fitting; ok is
// false when the grid has no foreground.
func Centroid(grid boundary.Grid) (x, y float64, ok bool) {
	if grid == nil {
		return 0, 0, false
	}

	w, h := grid.Size()
	var sx, sy float64
	n := 0
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if grid.Foreground(px, py) {
				sx += float64(px)
				sy += float64(py)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / float64(n), sy / float64(n), true
}
