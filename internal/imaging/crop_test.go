package imaging

import (
	"errors"
	"image/color"
	"testing"
)

func TestCrop(t *testing.T) {
	buf, err := FromImage(createPatternImage(100, 100), ModeColor)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	result, err := Crop(buf, Rect{X1: 0, Y1: 0, X2: 50, Y2: 50})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.Channels != 3 {
		t.Errorf("Channels: got %d, want 3", result.Channels)
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	buf, _ := FromImage(createPatternImage(100, 100), ModeColor)

	tests := []struct {
		name    string
		rect    Rect
		r, g, b uint8
	}{
		{"top-left", Rect{0, 0, 50, 50}, 255, 0, 0},
		{"top-right", Rect{50, 0, 100, 50}, 0, 255, 0},
		{"bottom-left", Rect{0, 50, 50, 100}, 0, 0, 255},
		{"bottom-right", Rect{50, 50, 100, 100}, 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(buf, tt.rect)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			for _, pt := range [][2]int{{0, 0}, {25, 25}, {49, 49}} {
				px := result.At(pt[0], pt[1])
				if px[0] != tt.r || px[1] != tt.g || px[2] != tt.b {
					t.Errorf("pixel %v: got %v, want (%d,%d,%d)", pt, px, tt.r, tt.g, tt.b)
				}
			}
		})
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	buf, _ := FromImage(createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255}), ModeColor)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"x1 negative", -1, 0, 50, 50},
		{"y1 negative", 0, -1, 50, 50},
		{"x2 too large", 0, 0, 101, 50},
		{"y2 too large", 0, 0, 50, 101},
		{"all out of bounds", -1, -1, 200, 200},
		{"x1 >= x2", 50, 0, 50, 50},
		{"y1 > y2", 0, 60, 50, 50},
		{"zero area", 50, 50, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(buf, Rect{tt.x1, tt.y1, tt.x2, tt.y2})
			if !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("Crop error: got %v, want ErrInvalidRegion", err)
			}
		})
	}
}

func TestCrop_FullImage(t *testing.T) {
	buf := solidBuffer(t, 30, 20, 1, 7)

	result, err := Crop(buf, Rect{0, 0, 30, 20})
	if err != nil {
		t.Fatalf("Crop full image failed: %v", err)
	}
	if result.Width != 30 || result.Height != 20 || result.Channels != 1 {
		t.Errorf("shape: got %dx%dx%d, want 30x20x1", result.Width, result.Height, result.Channels)
	}
	result.Pix[0] = 0
	if buf.Pix[0] != 7 {
		t.Error("Crop must not alias its input")
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		w, h     int
	}{
		{"gray up", 1, 128, 256},
		{"gray down", 1, 10, 10},
		{"color up", 3, 64, 32},
		{"color same", 3, 40, 30},
	}

	for _, tt := range tests {
		for _, interp := range Interpolations {
			t.Run(tt.name+"/"+interp.String(), func(t *testing.T) {
				src := solidBuffer(t, 40, 30, tt.channels, 90)

				out, err := Resize(src, tt.w, tt.h, interp)
				if err != nil {
					t.Fatalf("Resize failed: %v", err)
				}
				if out.Width != tt.w || out.Height != tt.h {
					t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width, out.Height, tt.w, tt.h)
				}
				if out.Channels != tt.channels {
					t.Errorf("Channels: got %d, want %d", out.Channels, tt.channels)
				}
				// A constant image stays constant under any normalized filter.
				if v := out.At(tt.w/2, tt.h/2)[0]; v < 89 || v > 91 {
					t.Errorf("center sample: got %d, want ~90", v)
				}
			})
		}
	}
}

func TestResize_InvalidSize(t *testing.T) {
	src := solidBuffer(t, 10, 10, 1, 0)

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := Resize(src, dims[0], dims[1], InterpLinear)
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Resize(%d,%d): got %v, want ErrInvalidSize", dims[0], dims[1], err)
		}
	}
}

func TestInterpolation_String(t *testing.T) {
	want := []string{"linear", "cubic", "area", "lanczos", "nearest"}
	if len(Interpolations) != len(want) {
		t.Fatalf("len(Interpolations): got %d, want %d", len(Interpolations), len(want))
	}
	for i, interp := range Interpolations {
		if interp.String() != want[i] {
			t.Errorf("Interpolations[%d]: got %s, want %s", i, interp, want[i])
		}
	}
	if got := Interpolation(42).String(); got != "Interpolation(42)" {
		t.Errorf("unknown interpolation: got %s", got)
	}
}

func TestInterpolation_TextRoundTrip(t *testing.T) {
	for _, interp := range Interpolations {
		text, err := interp.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s) failed: %v", interp, err)
		}
		var got Interpolation
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) failed: %v", text, err)
		}
		if got != interp {
			t.Errorf("got %s, want %s", got, interp)
		}
	}

	var bad Interpolation
	if err := bad.UnmarshalText([]byte("bits")); err == nil {
		t.Error("expected error for unknown name")
	}
}
