package perspective

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-synth/internal/imaging"
)

// Mask holds per-pixel coverage in [0, 1] of a warped image.
type Mask struct {
	Width  int
	Height int
	Cover  []float64
}

// At returns the coverage of pixel (x, y).
func (m *Mask) At(x, y int) float64 {
	return m.Cover[y*m.Width+x]
}

// supportEps absorbs rounding error when a destination pixel maps onto the
// border of the source support.
const supportEps = 1e-6

// Warp projects src through h into a width x height frame.
//
// Each destination pixel is mapped back through the inverse transform and
// sampled bilinearly. The support of src is the rectangle spanned by its pixel
// centers, [0, w-1] x [0, h-1]; destination pixels mapping outside it are zero
// with zero coverage, so nothing leaks past the projected quadrilateral. The
// returned mask is the summed weight of in-bounds neighbors, which equals
// warping a buffer of ones the same way.
//
// Rows are processed in parallel bands; the output does not depend on the
// number of workers.
func Warp(src *imaging.PixelBuffer, h Homography, width, height int) (*imaging.PixelBuffer, *Mask, error) {
	out, err := imaging.NewPixelBuffer(width, height, src.Channels)
	if err != nil {
		return nil, nil, err
	}
	inv, err := h.Inverse()
	if err != nil {
		return nil, nil, err
	}

	mask := &Mask{Width: width, Height: height, Cover: make([]float64, width*height)}

	parallel.Line(height, func(start, end int) {
		acc := make([]float64, src.Channels)
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				cover := sampleBilinear(src, inv, float64(x), float64(y), acc)
				if cover == 0 {
					continue
				}
				mask.Cover[y*width+x] = cover
				dst := out.Offset(x, y)
				for c, v := range acc {
					out.Pix[dst+c] = saturate(v)
				}
			}
		}
	})

	return out, mask, nil
}

// sampleBilinear fills acc with the weighted sum of the in-bounds neighbors of
// inv(x, y) and returns their total weight.
func sampleBilinear(src *imaging.PixelBuffer, inv Homography, x, y float64, acc []float64) float64 {
	p, ok := inv.Apply(Point{x, y})
	if !ok {
		return 0
	}
	maxX, maxY := float64(src.Width-1)+supportEps, float64(src.Height-1)+supportEps
	if !(p.X >= -supportEps && p.X <= maxX && p.Y >= -supportEps && p.Y <= maxY) {
		return 0
	}

	x0 := int(math.Floor(p.X))
	y0 := int(math.Floor(p.Y))
	fx := p.X - float64(x0)
	fy := p.Y - float64(y0)

	for c := range acc {
		acc[c] = 0
	}

	var cover float64
	taps := [4]struct {
		dx, dy int
		wt     float64
	}{
		{0, 0, (1 - fx) * (1 - fy)},
		{1, 0, fx * (1 - fy)},
		{0, 1, (1 - fx) * fy},
		{1, 1, fx * fy},
	}
	for _, tap := range taps {
		sx, sy := x0+tap.dx, y0+tap.dy
		if tap.wt == 0 || sx < 0 || sy < 0 || sx >= src.Width || sy >= src.Height {
			continue
		}
		cover += tap.wt
		i := src.Offset(sx, sy)
		for c := range acc {
			acc[c] += tap.wt * float64(src.Pix[i+c])
		}
	}
	return cover
}

// saturate rounds half away from zero and clamps to [0, 255].
func saturate(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Blend computes background*(1-mask) + fg*mask for every sample.
//
// Mask values are clamped to [0, 1], so zero coverage keeps the background
// sample and full coverage keeps the foreground sample, both exactly.
func Blend(background, fg *imaging.PixelBuffer, mask *Mask) (*imaging.PixelBuffer, error) {
	if background.Width != fg.Width || background.Height != fg.Height || background.Channels != fg.Channels {
		return nil, fmt.Errorf("blend shape mismatch: %dx%dx%d vs %dx%dx%d",
			background.Width, background.Height, background.Channels, fg.Width, fg.Height, fg.Channels)
	}
	if mask.Width != background.Width || mask.Height != background.Height {
		return nil, fmt.Errorf("mask shape mismatch: %dx%d vs %dx%d",
			mask.Width, mask.Height, background.Width, background.Height)
	}

	out := background.Clone()
	ch := background.Channels
	for i, m := range mask.Cover {
		m = math.Max(0, math.Min(1, m))
		if m == 0 {
			continue
		}
		for c := 0; c < ch; c++ {
			j := i*ch + c
			out.Pix[j] = saturate(float64(background.Pix[j])*(1-m) + float64(fg.Pix[j])*m)
		}
	}
	return out, nil
}
