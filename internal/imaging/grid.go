package imaging

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMargin is the gap in pixels between collage cells and around the canvas.
const DefaultMargin = 5

// White is the default collage fill.
var White = colorful.Color{R: 1, G: 1, B: 1}

// GridLayout returns the number of columns and rows used to tile n images.
//
//	columns = floor(sqrt(n - 0.1)) + 1
//	rows    = floor((n - 0.1) / columns) + 1
//
// Subtracting 0.1 breaks ties toward fewer columns when n is a perfect square
// (4 images give a 2x2 grid, 5 give 3x2). Callers rely on these exact counts.
func GridLayout(n int) (columns, rows int) {
	f := float64(n) - 0.1
	columns = int(math.Floor(math.Sqrt(f))) + 1
	rows = int(math.Floor(f/float64(columns))) + 1
	return columns, rows
}

// ParseFill parses a hex color such as "#FFFFFF" or "#fff" for use as a
// collage background.
func ParseFill(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid fill color %q: %w", hex, err)
	}
	return c, nil
}

// ComposeGrid tiles images into a white-padded grid. See ComposeGridFill.
func ComposeGrid(images []*PixelBuffer, marginPix int) (*PixelBuffer, error) {
	return ComposeGridFill(images, marginPix, White)
}

// ComposeGridFill tiles images row-major into a single canvas.
//
// Every cell is (max height + margin) x (max width + margin) and the canvas
// adds one extra margin on the bottom and right edges. Each image is pasted
// unscaled at the top-left of its cell; everything else keeps the fill color.
//
// The canvas is grayscale when every input is grayscale. If any input is
// color the canvas is RGB and grayscale inputs are replicated into three
// channels before pasting. A grayscale canvas is filled with the luma of fill.
//
// Returns ErrEmptyInput for an empty list and ErrInvalidSize for a negative margin.
func ComposeGridFill(images []*PixelBuffer, marginPix int, fill colorful.Color) (*PixelBuffer, error) {
	if len(images) == 0 {
		return nil, ErrEmptyInput
	}
	if marginPix < 0 {
		return nil, fmt.Errorf("%w: margin %d", ErrInvalidSize, marginPix)
	}

	channels := 1
	maxW, maxH := 0, 0
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("image %d is nil", i)
		}
		if img.Channels == 3 {
			channels = 3
		}
		maxW = max(maxW, img.Width)
		maxH = max(maxH, img.Height)
	}

	dy := maxH + marginPix
	dx := maxW + marginPix
	columns, rows := GridLayout(len(images))

	canvas, err := NewPixelBuffer(columns*dx+marginPix, rows*dy+marginPix, channels)
	if err != nil {
		return nil, err
	}
	fillCanvas(canvas, fill)

	for i, img := range images {
		ypos := marginPix + (i/columns)*dy
		xpos := marginPix + (i%columns)*dx

		tile := img
		if channels == 3 && img.IsGray() {
			tile = img.ToColor()
		}
		paste(canvas, tile, xpos, ypos)
	}

	return canvas, nil
}

func fillCanvas(canvas *PixelBuffer, fill colorful.Color) {
	r, g, b := fill.Clamped().RGB255()
	if canvas.IsGray() {
		v := luma(r, g, b)
		for i := range canvas.Pix {
			canvas.Pix[i] = v
		}
		return
	}
	for i := 0; i < len(canvas.Pix); i += 3 {
		canvas.Pix[i] = r
		canvas.Pix[i+1] = g
		canvas.Pix[i+2] = b
	}
}

// paste overwrites canvas pixels with src, top-left anchored at (x, y).
// Both buffers must have the same channel count and src must fit.
func paste(canvas, src *PixelBuffer, x, y int) {
	rowLen := src.Width * src.Channels
	for row := 0; row < src.Height; row++ {
		dst := canvas.Offset(x, y+row)
		copy(canvas.Pix[dst:dst+rowLen], src.Pix[row*rowLen:(row+1)*rowLen])
	}
}
