package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ColorMode selects how an image file is decoded into a PixelBuffer.
type ColorMode int

const (
	// ModeColor decodes to a 3-channel RGB buffer, dropping any alpha channel.
	ModeColor ColorMode = iota

	// ModeGrayscale decodes to a 1-channel luma buffer.
	ModeGrayscale
)

// String returns the mode name.
func (m ColorMode) String() string {
	if m == ModeGrayscale {
		return "grayscale"
	}
	return "color"
}

// PixelBuffer is an in-memory 8-bit image with 1 (grayscale) or 3 (RGB) channels.
//
// Samples are stored row-major with channels interleaved, so the sample for
// channel c of pixel (x, y) lives at Pix[(y*Width+x)*Channels+c].
//
// A PixelBuffer is treated as an immutable value: operations in this module
// return new buffers and never write to their inputs.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelBuffer allocates a zero-filled buffer.
//
// Returns ErrInvalidSize if either dimension is not positive, or an error if
// channels is not 1 or 3.
func NewPixelBuffer(width, height, channels int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// IsGray reports whether the buffer has a single channel.
func (b *PixelBuffer) IsGray() bool {
	return b.Channels == 1
}

// Bounds returns the buffer extent as an image rectangle anchored at the origin.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Offset returns the index of the first sample of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// At returns the samples of pixel (x, y). The returned slice aliases the buffer.
func (b *PixelBuffer) At(x, y int) []uint8 {
	i := b.Offset(x, y)
	return b.Pix[i : i+b.Channels]
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// ToColor returns a 3-channel copy of the buffer. Grayscale samples are
// replicated into all three channels.
func (b *PixelBuffer) ToColor() *PixelBuffer {
	if b.Channels == 3 {
		return b.Clone()
	}
	out := &PixelBuffer{Width: b.Width, Height: b.Height, Channels: 3, Pix: make([]uint8, b.Width*b.Height*3)}
	for i, v := range b.Pix {
		out.Pix[3*i] = v
		out.Pix[3*i+1] = v
		out.Pix[3*i+2] = v
	}
	return out
}

// ToGray returns a 1-channel copy of the buffer using ITU-R BT.601 luma weights.
func (b *PixelBuffer) ToGray() *PixelBuffer {
	if b.Channels == 1 {
		return b.Clone()
	}
	out := &PixelBuffer{Width: b.Width, Height: b.Height, Channels: 1, Pix: make([]uint8, b.Width*b.Height)}
	for i := range out.Pix {
		out.Pix[i] = luma(b.Pix[3*i], b.Pix[3*i+1], b.Pix[3*i+2])
	}
	return out
}

// WithChannels returns a copy converted to the given channel count.
func (b *PixelBuffer) WithChannels(channels int) *PixelBuffer {
	if channels == 1 {
		return b.ToGray()
	}
	return b.ToColor()
}

// ToImage converts the buffer to a standard library image: *image.Gray for
// grayscale buffers and opaque *image.NRGBA for color buffers.
func (b *PixelBuffer) ToImage() image.Image {
	if b.Channels == 1 {
		img := image.NewGray(b.Bounds())
		copy(img.Pix, b.Pix)
		return img
	}
	img := image.NewNRGBA(b.Bounds())
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		img.Pix[j] = b.Pix[i]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// FromImage converts any image.Image to a PixelBuffer in the given color mode.
//
// Color mode keeps R, G and B and discards alpha without premultiplication.
// Grayscale mode computes BT.601 luma; *image.Gray sources are copied directly.
func FromImage(img image.Image, mode ColorMode) (*PixelBuffer, error) {
	bounds := img.Bounds()
	out, err := NewPixelBuffer(bounds.Dx(), bounds.Dy(), channelsFor(mode))
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok && mode == ModeGrayscale {
		for y := 0; y < out.Height; y++ {
			start := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*out.Width:(y+1)*out.Width], g.Pix[start:start+out.Width])
		}
		return out, nil
	}

	src := imaging.Clone(img)
	for i, j := 0, 0; j < len(src.Pix); i, j = i+out.Channels, j+4 {
		r, g, bl := src.Pix[j], src.Pix[j+1], src.Pix[j+2]
		if mode == ModeGrayscale {
			out.Pix[i] = luma(r, g, bl)
			continue
		}
		out.Pix[i] = r
		out.Pix[i+1] = g
		out.Pix[i+2] = bl
	}
	return out, nil
}

func channelsFor(mode ColorMode) int {
	if mode == ModeGrayscale {
		return 1
	}
	return 3
}

// luma computes rounded 0.299R + 0.587G + 0.114B.
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// GrayLevel returns the luma of an arbitrary color.
func GrayLevel(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return luma(n.R, n.G, n.B)
}
