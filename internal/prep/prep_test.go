package prep

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

// spot returns a dark w x h image with a bright square [x0,x1) x [y0,y1)
func spot(w, h, x0, y0, x1, y1 int, level uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(10)
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				v = level
			}
			img.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func TestBinarize(t *testing.T) {
	img := spot(10, 10, 3, 3, 7, 7, 200)

	bw, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	if bw.GrayAt(5, 5).Y != 255 {
		t.Error("Bright pixel should be foreground")
	}
	if bw.GrayAt(0, 0).Y != 0 {
		t.Error("Dark pixel should be background")
	}
}

func TestBinarizeInvert(t *testing.T) {
	img := spot(10, 10, 3, 3, 7, 7, 200)

	opts := DefaultOptions()
	opts.Invert = true
	bw, err := Binarize(img, opts)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	if bw.GrayAt(5, 5).Y != 0 || bw.GrayAt(0, 0).Y != 255 {
		t.Error("Invert should swap foreground and background")
	}
}

func TestBinarizeThresholdOne(t *testing.T) {
	img := spot(4, 4, 0, 0, 2, 2, 255)

	opts := DefaultOptions()
	opts.Threshold = 1
	bw, err := Binarize(img, opts)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	// Nothing is strictly brighter than the maximum
	for _, v := range bw.Pix {
		if v != 0 {
			t.Fatal("Expected an all-background image")
		}
	}
}

func TestBinarizeSoften(t *testing.T) {
	// A single bright pixel is smeared below max/2 by a box blur
	img := spot(9, 9, 4, 4, 5, 5, 250)

	opts := DefaultOptions()
	opts.Soften = 2
	bw, err := Binarize(img, opts)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if bw.Bounds().Dx() != 9 || bw.Bounds().Dy() != 9 {
		t.Errorf("Softening should keep the size, got %v", bw.Bounds())
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative soften", Options{Soften: -1, Threshold: 2}},
		{"zero threshold", Options{Threshold: 0}},
		{"negative threshold", Options{Threshold: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("Default options invalid: %v", err)
	}
}

func TestPrepareCrop(t *testing.T) {
	img := spot(20, 20, 5, 5, 15, 15, 220)

	opts := DefaultOptions()
	opts.Crop = image.Rect(0, 0, 10, 8)
	prepared, err := Prepare(img, opts)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	grid, bw := prepared.Grid, prepared.Binary

	w, h := grid.Size()
	if w != 10 || h != 8 {
		t.Errorf("Expected 10x8 grid, got %dx%d", w, h)
	}
	if bw.Bounds().Dx() != 10 {
		t.Errorf("Expected 10px wide image, got %d", bw.Bounds().Dx())
	}
	if !grid.Foreground(7, 6) || grid.Foreground(2, 2) {
		t.Error("Crop should keep pixel coordinates relative to the region")
	}
	if prepared.Source.Bounds().Dx() != 10 || prepared.Source.Bounds().Dy() != 8 {
		t.Errorf("Expected cropped source, got %v", prepared.Source.Bounds())
	}
}

func TestPrepareInvalidCrop(t *testing.T) {
	img := spot(10, 10, 0, 0, 1, 1, 200)

	opts := DefaultOptions()
	opts.Crop = image.Rect(0, 0, 20, 5)
	if _, err := Prepare(img, opts); err == nil {
		t.Error("Expected error for crop outside image")
	}
}

func TestCropOutsideBounds(t *testing.T) {
	img := spot(10, 10, 0, 0, 1, 1, 200)

	if _, err := Crop(img, image.Rect(5, 5, 20, 20)); err == nil {
		t.Error("Expected error for crop outside image")
	}

	same, err := Crop(img, image.Rectangle{})
	if err != nil || same != image.Image(img) {
		t.Error("Empty crop should return the image unchanged")
	}
}

func TestSaveAndLoad(t *testing.T) {
	img := spot(12, 9, 2, 2, 6, 6, 230)
	path := filepath.Join(t.TempDir(), "spot.png")

	if err := Save(img, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Bounds().Dx() != 12 || loaded.Bounds().Dy() != 9 {
		t.Errorf("Unexpected size %v", loaded.Bounds())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Rectangle
		wantErr bool
	}{
		{"0,0,150,750", image.Rect(0, 0, 150, 750), false},
		{" 1, 2 ,3,4", image.Rect(1, 2, 3, 4), false},
		{"1,2,3", image.Rectangle{}, true},
		{"a,0,1,1", image.Rectangle{}, true},
		{"5,0,5,10", image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRect(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRect(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
