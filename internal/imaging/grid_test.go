package imaging

import (
	"errors"
	"testing"
)

func TestGridLayout(t *testing.T) {
	tests := []struct {
		n             int
		columns, rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{6, 3, 2},
		{7, 3, 3},
		{9, 3, 3},
		{10, 4, 3},
		{16, 4, 4},
		{17, 5, 4},
		{44, 7, 7},
	}

	for _, tt := range tests {
		columns, rows := GridLayout(tt.n)
		if columns != tt.columns || rows != tt.rows {
			t.Errorf("GridLayout(%d): got %dx%d, want %dx%d", tt.n, columns, rows, tt.columns, tt.rows)
		}
		if columns*rows < tt.n {
			t.Errorf("GridLayout(%d): %d cells cannot hold every image", tt.n, columns*rows)
		}
	}
}

func TestComposeGrid_Single(t *testing.T) {
	img := solidBuffer(t, 20, 10, 1, 0)

	clg, err := ComposeGrid([]*PixelBuffer{img}, DefaultMargin)
	if err != nil {
		t.Fatalf("ComposeGrid failed: %v", err)
	}

	if clg.Width != 20+2*DefaultMargin || clg.Height != 10+2*DefaultMargin {
		t.Errorf("dimensions: got %dx%d, want %dx%d", clg.Width, clg.Height, 20+2*DefaultMargin, 10+2*DefaultMargin)
	}
	if clg.Channels != 1 {
		t.Errorf("Channels: got %d, want 1", clg.Channels)
	}

	// Margin stays white, image area is black.
	if v := clg.At(0, 0)[0]; v != 255 {
		t.Errorf("margin pixel: got %d, want 255", v)
	}
	if v := clg.At(DefaultMargin, DefaultMargin)[0]; v != 0 {
		t.Errorf("image top-left: got %d, want 0", v)
	}
	if v := clg.At(DefaultMargin+19, DefaultMargin+9)[0]; v != 0 {
		t.Errorf("image bottom-right: got %d, want 0", v)
	}
	if v := clg.At(DefaultMargin+20, DefaultMargin+9)[0]; v != 255 {
		t.Errorf("right margin: got %d, want 255", v)
	}
}

func TestComposeGrid_FourGray(t *testing.T) {
	images := make([]*PixelBuffer, 4)
	for i := range images {
		images[i] = solidBuffer(t, 10, 10, 1, uint8(i*10))
	}

	clg, err := ComposeGrid(images, 5)
	if err != nil {
		t.Fatalf("ComposeGrid failed: %v", err)
	}

	// 2x2 grid of 15px cells plus a trailing margin.
	if clg.Width != 35 || clg.Height != 35 {
		t.Errorf("dimensions: got %dx%d, want 35x35", clg.Width, clg.Height)
	}

	// Row-major placement.
	positions := [][2]int{{5, 5}, {20, 5}, {5, 20}, {20, 20}}
	for i, p := range positions {
		if v := clg.At(p[0], p[1])[0]; v != uint8(i*10) {
			t.Errorf("image %d at %v: got %d, want %d", i, p, v, i*10)
		}
	}
}

func TestComposeGrid_FiveImages(t *testing.T) {
	images := make([]*PixelBuffer, 5)
	for i := range images {
		images[i] = solidBuffer(t, 8, 6, 1, 0)
	}

	clg, err := ComposeGrid(images, 2)
	if err != nil {
		t.Fatalf("ComposeGrid failed: %v", err)
	}

	// columns = 3, rows = 2; cell 10x8.
	if clg.Width != 3*10+2 || clg.Height != 2*8+2 {
		t.Errorf("dimensions: got %dx%d, want 32x18", clg.Width, clg.Height)
	}
	// Sixth cell (row 1, column 2) is unused and stays white.
	if v := clg.At(2+2*10, 2+8)[0]; v != 255 {
		t.Errorf("unused cell: got %d, want 255", v)
	}
}

func TestComposeGrid_MixedDepth(t *testing.T) {
	gray := solidBuffer(t, 10, 10, 1, 50)
	rgb, _ := NewPixelBuffer(6, 4, 3)
	for i := 0; i < len(rgb.Pix); i += 3 {
		rgb.Pix[i] = 200
	}

	clg, err := ComposeGrid([]*PixelBuffer{gray, rgb, gray}, 5)
	if err != nil {
		t.Fatalf("ComposeGrid failed: %v", err)
	}

	if clg.Channels != 3 {
		t.Fatalf("Channels: got %d, want 3", clg.Channels)
	}

	// Grayscale tile replicated across channels.
	if px := clg.At(5, 5); px[0] != 50 || px[1] != 50 || px[2] != 50 {
		t.Errorf("gray tile: got %v, want [50 50 50]", px)
	}
	// Color tile in column 1, cell width 15.
	if px := clg.At(20, 5); px[0] != 200 || px[1] != 0 || px[2] != 0 {
		t.Errorf("color tile: got %v, want [200 0 0]", px)
	}
	// Right of the smaller color tile the cell stays white.
	if px := clg.At(20+6, 5); px[0] != 255 || px[1] != 255 || px[2] != 255 {
		t.Errorf("cell padding: got %v, want white", px)
	}
	// Inputs are unchanged.
	if gray.Channels != 1 {
		t.Error("grayscale input was converted in place")
	}
}

func TestComposeGrid_AllGray(t *testing.T) {
	images := []*PixelBuffer{solidBuffer(t, 5, 5, 1, 1), solidBuffer(t, 7, 3, 1, 2)}

	clg, err := ComposeGrid(images, 1)
	if err != nil {
		t.Fatalf("ComposeGrid failed: %v", err)
	}
	if clg.Channels != 1 {
		t.Errorf("Channels: got %d, want 1", clg.Channels)
	}
}

func TestComposeGrid_Errors(t *testing.T) {
	if _, err := ComposeGrid(nil, 5); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: got %v, want ErrEmptyInput", err)
	}

	img := solidBuffer(t, 5, 5, 1, 0)
	if _, err := ComposeGrid([]*PixelBuffer{img}, -1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative margin: got %v, want ErrInvalidSize", err)
	}
	if _, err := ComposeGrid([]*PixelBuffer{img, nil}, 5); err == nil {
		t.Error("nil image: expected error, got nil")
	}
}

func TestComposeGridFill(t *testing.T) {
	fill, err := ParseFill("#FF0000")
	if err != nil {
		t.Fatalf("ParseFill failed: %v", err)
	}

	color := solidBuffer(t, 4, 4, 3, 0)
	clg, err := ComposeGridFill([]*PixelBuffer{color}, 3, fill)
	if err != nil {
		t.Fatalf("ComposeGridFill failed: %v", err)
	}
	if px := clg.At(0, 0); px[0] != 255 || px[1] != 0 || px[2] != 0 {
		t.Errorf("fill: got %v, want [255 0 0]", px)
	}

	gray := solidBuffer(t, 4, 4, 1, 0)
	clg, err = ComposeGridFill([]*PixelBuffer{gray}, 3, fill)
	if err != nil {
		t.Fatalf("ComposeGridFill failed: %v", err)
	}
	if v := clg.At(0, 0)[0]; v != 76 {
		t.Errorf("gray fill: got %d, want 76", v)
	}
}

func TestParseFill(t *testing.T) {
	tests := []struct {
		hex     string
		wantErr bool
	}{
		{"#FFFFFF", false},
		{"#ffffff", false},
		{"#fff", false},
		{"", true},
		{"FFFFFF", true},
		{"#GGGGGG", true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			_, err := ParseFill(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFill(%q): err = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
		})
	}
}
