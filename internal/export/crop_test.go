package export

import (
	"image"
	"testing"
)

func TestCropRectWideSource(t *testing.T) {
	// 2000x1000 source, 1:1 target: crop runs along the x axis, 1000 wide.
	r := CropRect(2000, 1000, 1.0, 0.5, 0.5)
	if r.Dx() != 1000 || r.Dy() != 1000 {
		t.Fatalf("crop = %v, want 1000x1000", r)
	}
	if r.Min.X != 500 {
		t.Errorf("centered focal point should center the window, got x=%d", r.Min.X)
	}
}

func TestCropRectTallSource(t *testing.T) {
	// 1000x2000 source, 1:1 target: crop runs along the y axis.
	r := CropRect(1000, 2000, 1.0, 0.5, 0.5)
	if r.Dx() != 1000 || r.Dy() != 1000 {
		t.Fatalf("crop = %v, want 1000x1000", r)
	}
	if r.Min.Y != 500 {
		t.Errorf("got y=%d, want 500", r.Min.Y)
	}
}

func TestCropRectClampsToBounds(t *testing.T) {
	cases := []struct {
		name           string
		focalX, focalY float64
		wantX, wantY   int
	}{
		{"focal at left edge", 0, 0.5, 0, 0},
		{"focal at right edge", 1, 0.5, 1000, 0},
		{"focal outside range clamps", 5, -3, 1000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := CropRect(2000, 1000, 1.0, tc.focalX, tc.focalY)
			if r.Min.X != tc.wantX || r.Min.Y != tc.wantY {
				t.Errorf("crop origin = (%d,%d), want (%d,%d)", r.Min.X, r.Min.Y, tc.wantX, tc.wantY)
			}
			if r.Max.X > 2000 || r.Max.Y > 1000 || r.Min.X < 0 || r.Min.Y < 0 {
				t.Errorf("crop %v leaves image bounds", r)
			}
		})
	}
}

func TestCropRectMatchingRatioIsFullFrame(t *testing.T) {
	r := CropRect(800, 1000, 0.8, 0.2, 0.9)
	if r != image.Rect(0, 0, 800, 1000) {
		t.Errorf("crop = %v, want full frame when ratios match", r)
	}
}

func TestCropRectFocalStaysInsideWindow(t *testing.T) {
	for _, fx := range []float64{0, 0.25, 0.5, 0.75, 1} {
		r := CropRect(3000, 1000, 1.5, fx, 0.5)
		px := int(fx * 3000)
		if px < r.Min.X || px > r.Max.X {
			t.Errorf("focal x %d outside crop %v", px, r)
		}
	}
}

func TestCropRectDegenerateSource(t *testing.T) {
	if r := CropRect(0, 0, 1.0, 0.5, 0.5); r.Dx() != 0 || r.Dy() != 0 {
		t.Errorf("crop of empty image = %v, want empty", r)
	}
}
