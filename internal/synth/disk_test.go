package synth

import (
	"math"
	"testing"
)

func TestDisk(t *testing.T) {
	m := Disk(11, 11, 5, 5, 3)

	if !m.Foreground(5, 5) {
		t.Error("Center should be foreground")
	}
	if m.Foreground(8, 5) {
		t.Error("Pixel at exactly r should be background")
	}
	if !m.Foreground(7, 5) {
		t.Error("Pixel inside r should be foreground")
	}
	if m.Foreground(0, 0) {
		t.Error("Corner should be background")
	}

	// Symmetric around the center
	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			if m.Foreground(x, y) != m.Foreground(10-x, 10-y) {
				t.Fatalf("Disk not symmetric at (%d,%d)", x, y)
			}
		}
	}
}

func TestDiskArea(t *testing.T) {
	m := Disk(201, 201, 100, 100, 60)

	want := math.Pi * 60 * 60
	got := float64(m.Count())
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("Disk area %f deviates from %f", got, want)
	}
}

func TestDefaultScene(t *testing.T) {
	s := DefaultScene()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default scene invalid: %v", err)
	}

	cx, cy := s.PixelCenter()
	if cx != 511.5 || cy != 511.5 {
		t.Errorf("Expected center (511.5, 511.5), got (%f, %f)", cx, cy)
	}
	if math.Abs(s.PixelRadius()-409.2) > 1e-9 {
		t.Errorf("Expected pixel radius 409.2, got %f", s.PixelRadius())
	}

	full, cropped := s.Render()
	if w, h := full.Size(); w != 1024 || h != 1024 {
		t.Errorf("Expected 1024x1024 image, got %dx%d", w, h)
	}
	if w, h := cropped.Size(); w != 150 || h != 750 {
		t.Errorf("Expected 150x750 crop, got %dx%d", w, h)
	}

	// The crop holds only the leftmost slice of the disk
	if cropped.Count() == 0 {
		t.Fatal("Crop should contain part of the disk")
	}
	if cropped.Foreground(0, 511) {
		t.Error("Left edge should be outside the disk")
	}
	if !cropped.Foreground(149, 511) {
		t.Error("Right crop edge at the center row should be inside the disk")
	}
	if cropped.Foreground(149, 0) {
		t.Error("Top of the crop should be outside the disk")
	}
}

func TestSceneValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scene)
	}{
		{"size", func(s *Scene) { s.Size = 1 }},
		{"extent", func(s *Scene) { s.Extent = 0 }},
		{"radius", func(s *Scene) { s.DiskRadius = -1 }},
		{"rows", func(s *Scene) { s.Rows = 0 }},
		{"cols", func(s *Scene) { s.Cols = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScene()
			tt.modify(&s)
			if err := s.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
