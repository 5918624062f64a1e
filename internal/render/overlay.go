package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/cwbudde/fiducialfit/internal/boundary"
	"github.com/cwbudde/fiducialfit/internal/fit"
	"github.com/lucasb-eyer/go-colorful"
)

// Style controls how an overlay is drawn
type Style struct {
	Color     colorful.Color
	Opacity   float64 // in [0,1]
	Thickness float64 // ring width in pixels
	Marker    int     // half-length of the center cross in pixels
}

// DefaultStyle draws a red 2px ring with a 6px center cross
func DefaultStyle() Style {
	return Style{
		Color:     colorful.Color{R: 1, G: 0, B: 0},
		Opacity:   0.9,
		Thickness: 2,
		Marker:    6,
	}
}

// ParseColor parses a hex color such as "#00ff00"
func ParseColor(hex string) (colorful.Color, error) {
	return colorful.Hex(hex)
}

// Overlay copies base and draws the fitted circle and its center on it
func Overlay(base image.Image, p fit.Params, style Style) *image.NRGBA {
	bounds := base.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), base, bounds.Min, draw.Src)

	drawRing(img, p, style)
	drawCross(img, p, style)
	return img
}

// Points draws boundary points onto img in place
func Points(img *image.NRGBA, points boundary.PointSet, style Style) {
	c := style.Color.Clamped()
	for _, pt := range points.Points() {
		if image.Pt(pt.X, pt.Y).In(img.Bounds()) {
			compositePixel(img, pt.X, pt.Y, c.R, c.G, c.B, style.Opacity)
		}
	}
}

// MaskImage converts a grid into a black/white image
func MaskImage(grid boundary.Grid) *image.Gray {
	w, h := grid.Size()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if grid.Foreground(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// drawRing composites every pixel whose center is within Thickness/2 of the circle
func drawRing(img *image.NRGBA, p fit.Params, style Style) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	half := math.Max(style.Thickness, 1) / 2
	outer := p.Radius + half

	// Compute bounding box
	minX := int(math.Max(0, math.Floor(p.CenterX-outer)))
	maxX := int(math.Min(float64(width-1), math.Ceil(p.CenterX+outer)))
	minY := int(math.Max(0, math.Floor(p.CenterY-outer)))
	maxY := int(math.Min(float64(height-1), math.Ceil(p.CenterY+outer)))

	c := style.Color.Clamped()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			d := math.Hypot(float64(x)-p.CenterX, float64(y)-p.CenterY)
			if math.Abs(d-p.Radius) > half {
				continue
			}
			compositePixel(img, x, y, c.R, c.G, c.B, style.Opacity)
		}
	}
}

// drawCross marks the center with a plus sign
func drawCross(img *image.NRGBA, p fit.Params, style Style) {
	cx := int(math.Round(p.CenterX))
	cy := int(math.Round(p.CenterY))
	c := style.Color.Clamped()
	b := img.Bounds()

	for d := -style.Marker; d <= style.Marker; d++ {
		for _, pt := range []image.Point{{cx + d, cy}, {cx, cy + d}} {
			if pt.In(b) {
				compositePixel(img, pt.X, pt.Y, c.R, c.G, c.B, style.Opacity)
			}
		}
	}
}

// compositePixel blends a color onto the image at (x,y) using premultiplied alpha
func compositePixel(img *image.NRGBA, x, y int, r, g, b, alpha float64) {
	i := img.PixOffset(x, y)

	// Current background color (non-premultiplied)
	bgR := float64(img.Pix[i+0]) / 255.0
	bgG := float64(img.Pix[i+1]) / 255.0
	bgB := float64(img.Pix[i+2]) / 255.0
	bgA := float64(img.Pix[i+3]) / 255.0

	// Foreground premultiplied
	fgR := r * alpha
	fgG := g * alpha
	fgB := b * alpha
	fgA := alpha

	// Porter-Duff "over" operator
	outA := fgA + bgA*(1-fgA)
	if outA == 0 {
		return // Transparent
	}

	outR := (fgR + bgR*bgA*(1-fgA)) / outA
	outG := (fgG + bgG*bgA*(1-fgA)) / outA
	outB := (fgB + bgB*bgA*(1-fgA)) / outA

	img.Pix[i+0] = uint8(math.Round(outR * 255))
	img.Pix[i+1] = uint8(math.Round(outG * 255))
	img.Pix[i+2] = uint8(math.Round(outB * 255))
	img.Pix[i+3] = uint8(math.Round(outA * 255))
}
