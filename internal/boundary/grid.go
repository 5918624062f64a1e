package boundary

import "image"

// Grid is a read-only two-valued pixel grid.
// Foreground is only called with 0 <= x < width and 0 <= y < height.
type Grid interface {
	Size() (width, height int)
	Foreground(x, y int) bool
}

// Mask is a boolean foreground bitmap stored row-major.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// NewMask creates an all-background mask of the given size
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// Size returns the mask dimensions
func (m *Mask) Size() (int, int) {
	return m.width, m.height
}

// Foreground reports whether (x, y) is set
func (m *Mask) Foreground(x, y int) bool {
	return m.bits[y*m.width+x]
}

// Set marks (x, y) as foreground or background. Out-of-range writes are ignored.
func (m *Mask) Set(x, y int, fg bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.bits[y*m.width+x] = fg
}

// Count returns the number of foreground pixels
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// SubMask returns a copy of the rectangle [x0,x1) x [y0,y1), clipped to the mask
func (m *Mask) SubMask(x0, y0, x1, y1 int) *Mask {
	r := image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, m.width, m.height))
	out := NewMask(r.Dx(), r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.bits[(y-r.Min.Y)*out.width+(x-r.Min.X)] = m.bits[y*m.width+x]
		}
	}
	return out
}

// GrayGrid adapts an already-thresholded grayscale image.
// Any non-zero pixel is foreground.
type GrayGrid struct {
	img *image.Gray
}

// NewGrayGrid wraps img; coordinates are relative to img.Bounds().Min
func NewGrayGrid(img *image.Gray) *GrayGrid {
	return &GrayGrid{img: img}
}

// Size returns the image dimensions
func (g *GrayGrid) Size() (int, int) {
	if g.img == nil {
		return 0, 0
	}
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

// Foreground reports whether the pixel is non-zero
func (g *GrayGrid) Foreground(x, y int) bool {
	b := g.img.Bounds()
	return g.img.Pix[g.img.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0
}
