package prep

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

// Options controls image preparation
type Options struct {
	// Crop selects a region of the source image; the zero rectangle keeps all of it
	Crop image.Rectangle `json:"crop" yaml:"-"`

	// Soften is the box blur radius applied before binarizing; 0 disables it
	Soften float64 `json:"soften" yaml:"soften"`

	// Threshold T makes a pixel foreground when its luminance exceeds max/T
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Invert swaps foreground and background, for dark fiducials on a light field
	Invert bool `json:"invert" yaml:"invert"`
}

// DefaultOptions binarizes at half the maximum luminance without softening
func DefaultOptions() Options {
	return Options{Threshold: 2}
}

// Validate checks the options
func (o Options) Validate() error {
	if o.Soften < 0 {
		return fmt.Errorf("soften radius cannot be negative, got %g", o.Soften)
	}
	if o.Threshold <= 0 || math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) {
		return fmt.Errorf("threshold must be a positive number, got %g", o.Threshold)
	}
	if o.Crop.Dx() < 0 || o.Crop.Dy() < 0 {
		return fmt.Errorf("invalid crop region %v", o.Crop)
	}
	return nil
}

// Load opens an image file in any format imaging can decode
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// Crop extracts region from img. The region must lie inside the image.
func Crop(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if region.Empty() {
		return img, nil
	}
	if !region.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}
	return imaging.Crop(img, region), nil
}

// Binarize converts img to a black/white image.
// Pixels brighter than max/T become white (foreground).
func Binarize(img image.Image, opts Options) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src := img
	if opts.Soften > 0 {
		src = blur.Box(src, opts.Soften)
	}

	gray := imaging.Grayscale(src)
	if opts.Invert {
		gray = imaging.Invert(gray)
	}

	level := math.Floor(float64(maxLuminance(gray))/opts.Threshold) + 1
	if level > 255 {
		// Nothing can exceed the maximum; return an all-background image
		b := gray.Bounds()
		return image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy())), nil
	}

	return segment.Threshold(gray, uint8(level)), nil
}

// Prepared holds the stages of a prepared image. All three share the
// coordinate system of the crop.
type Prepared struct {
	Source image.Image
	Binary *image.Gray
	Grid   *boundary.GrayGrid
}

// Prepare crops, softens and binarizes img into a grid
func Prepare(img image.Image, opts Options) (*Prepared, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cropped, err := Crop(img, opts.Crop)
	if err != nil {
		return nil, err
	}

	bw, err := Binarize(cropped, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	return &Prepared{
		Source: cropped,
		Binary: bw,
		Grid:   boundary.NewGrayGrid(bw),
	}, nil
}

// Save writes img to path; the format follows the file extension
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// ParseRect parses "x0,y0,x1,y1" into a rectangle
func ParseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("crop must be x0,y0,x1,y1, got %q", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid crop coordinate %q: %w", p, err)
		}
		v[i] = n
	}

	if v[0] >= v[2] || v[1] >= v[3] {
		return image.Rectangle{}, fmt.Errorf("invalid crop region: x0 must be < x1, y0 must be < y1")
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// maxLuminance returns the brightest red channel value of a grayscale NRGBA image
func maxLuminance(img *image.NRGBA) uint8 {
	var m uint8
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] > m {
				m = row[i]
			}
		}
	}
	return m
}
