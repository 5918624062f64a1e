package synth

import (
	"fmt"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

// Disk rasterizes a filled disk in pixel coordinates.
// A pixel is foreground when its center satisfies (x-cx)^2 + (y-cy)^2 < r^2.
func Disk(width, height int, cx, cy, r float64) *boundary.Mask {
	m := boundary.NewMask(width, height)
	r2 := r * r
	for y := 0; y < height; y++ {
		dy := float64(y) - cy
		for x := 0; x < width; x++ {
			dx := float64(x) - cx
			if dx*dx+dy*dy < r2 {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// Scene is a disk of radius DiskRadius centered on a square N x N sampling of
// the plane [-Extent, Extent]^2, cropped to rows [0, Rows) and columns [0, Cols).
type Scene struct {
	Size       int     `json:"size"`
	Extent     float64 `json:"extent"`
	DiskRadius float64 `json:"diskRadius"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
}

// DefaultScene is the 1024x1024 photo of a radius-8 disk cropped to a thin
// strip along its left side.
func DefaultScene() Scene {
	return Scene{
		Size:       1024,
		Extent:     10,
		DiskRadius: 8,
		Rows:       750,
		Cols:       150,
	}
}

// Validate checks the scene geometry
func (s Scene) Validate() error {
	if s.Size < 2 {
		return fmt.Errorf("scene size must be at least 2, got %d", s.Size)
	}
	if s.Extent <= 0 {
		return fmt.Errorf("scene extent must be positive, got %g", s.Extent)
	}
	if s.DiskRadius <= 0 {
		return fmt.Errorf("disk radius must be positive, got %g", s.DiskRadius)
	}
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("crop must be non-empty, got %dx%d", s.Cols, s.Rows)
	}
	return nil
}

// Scale returns pixels per plane unit
func (s Scene) Scale() float64 {
	return float64(s.Size-1) / (2 * s.Extent)
}

// PixelCenter returns the disk center in pixel coordinates
func (s Scene) PixelCenter() (float64, float64) {
	c := float64(s.Size-1) / 2
	return c, c
}

// PixelRadius returns the disk radius in pixels
func (s Scene) PixelRadius() float64 {
	return s.DiskRadius * s.Scale()
}

// Render returns the full image and its crop
func (s Scene) Render() (full, cropped *boundary.Mask) {
	cx, cy := s.PixelCenter()
	full = Disk(s.Size, s.Size, cx, cy, s.PixelRadius())
	cropped = full.SubMask(0, 0, s.Cols, s.Rows)
	return full, cropped
}
