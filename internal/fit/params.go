package fit

import (
	"fmt"
	"math"
)

// Params are the parameters of a circle
type Params struct {
	CenterX float64 `json:"centerX" yaml:"center_x"`
	CenterY float64 `json:"centerY" yaml:"center_y"`
	Radius  float64 `json:"radius" yaml:"radius"`
}

// Vector encodes the parameters as (a, b, r)
func (p Params) Vector() []float64 {
	return []float64{p.CenterX, p.CenterY, p.Radius}
}

// ParamsFromVector decodes an (a, b, r) vector
func ParamsFromVector(x []float64) Params {
	return Params{
		CenterX: x[0],
		CenterY: x[1],
		Radius:  x[2],
	}
}

// Finite reports whether all parameters are finite numbers
func (p Params) Finite() bool {
	for _, v := range p.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Params) String() string {
	return fmt.Sprintf("center=(%.3f, %.3f) radius=%.3f", p.CenterX, p.CenterY, p.Radius)
}

// Bounds is the search box handed to bounded strategies
type Bounds struct {
	Lower []float64
	Upper []float64
}

// NewBounds creates a search box for a WxH grid. Partial arcs often have
// their center outside the image, so the center may lie up to max(W,H)
// beyond each edge and the radius may reach twice that.
func NewBounds(width, height int) *Bounds {
	maxDim := float64(max(width, height, 1))

	return &Bounds{
		Lower: []float64{-maxDim, -maxDim, 0.5},
		Upper: []float64{float64(width) + maxDim, float64(height) + maxDim, 2 * maxDim},
	}
}

// Clamp clamps p to the box
func (b *Bounds) Clamp(p Params) Params {
	return Params{
		CenterX: clamp(p.CenterX, b.Lower[0], b.Upper[0]),
		CenterY: clamp(p.CenterY, b.Lower[1], b.Upper[1]),
		Radius:  clamp(p.Radius, b.Lower[2], b.Upper[2]),
	}
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
