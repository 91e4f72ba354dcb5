package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// Rect is a rectangular region within a buffer.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive), so Width = X2 - X1 and Height = Y2 - Y1.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() int { return r.X2 - r.X1 }

// Dy returns the height of the rectangle.
func (r Rect) Dy() int { return r.Y2 - r.Y1 }

// Within reports whether r is non-empty and lies inside a width x height image.
func (r Rect) Within(width, height int) bool {
	return r.X1 >= 0 && r.Y1 >= 0 && r.X2 <= width && r.Y2 <= height && r.X1 < r.X2 && r.Y1 < r.Y2
}

// Crop extracts a rectangular region from a buffer.
//
// Returns ErrInvalidRegion if the rectangle is empty or extends past the
// buffer bounds.
func Crop(buf *PixelBuffer, r Rect) (*PixelBuffer, error) {
	if !r.Within(buf.Width, buf.Height) {
		return nil, fmt.Errorf("%w: (%d,%d)-(%d,%d) in %dx%d image",
			ErrInvalidRegion, r.X1, r.Y1, r.X2, r.Y2, buf.Width, buf.Height)
	}

	out, err := NewPixelBuffer(r.Dx(), r.Dy(), buf.Channels)
	if err != nil {
		return nil, err
	}
	rowLen := r.Dx() * buf.Channels
	for y := 0; y < out.Height; y++ {
		src := buf.Offset(r.X1, r.Y1+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], buf.Pix[src:src+rowLen])
	}
	return out, nil
}

// Interpolation selects the resampling filter used by Resize.
type Interpolation int

const (
	// InterpLinear is bilinear interpolation.
	InterpLinear Interpolation = iota

	// InterpCubic is bicubic (Catmull-Rom) interpolation.
	InterpCubic

	// InterpArea averages source pixels under each destination pixel (box filter).
	InterpArea

	// InterpLanczos is Lanczos resampling with a support of 3.
	InterpLanczos

	// InterpNearest copies the nearest source pixel, keeping exact sample values.
	InterpNearest
)

// Interpolations lists every interpolation method in a fixed order. Random
// augmentation picks uniformly from this slice.
var Interpolations = []Interpolation{
	InterpLinear,
	InterpCubic,
	InterpArea,
	InterpLanczos,
	InterpNearest,
}

var interpolationNames = map[Interpolation]string{
	InterpLinear:  "linear",
	InterpCubic:   "cubic",
	InterpArea:    "area",
	InterpLanczos: "lanczos",
	InterpNearest: "nearest",
}

// String returns the lower-case method name.
func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// MarshalText encodes the method by name.
func (i Interpolation) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes a method name produced by MarshalText.
func (i *Interpolation) UnmarshalText(text []byte) error {
	for interp, name := range interpolationNames {
		if name == string(text) {
			*i = interp
			return nil
		}
	}
	return fmt.Errorf("unknown interpolation %q", text)
}

func (i Interpolation) filter() (imaging.ResampleFilter, error) {
	switch i {
	case InterpLinear:
		return imaging.Linear, nil
	case InterpCubic:
		return imaging.CatmullRom, nil
	case InterpArea:
		return imaging.Box, nil
	case InterpLanczos:
		return imaging.Lanczos, nil
	case InterpNearest:
		return imaging.NearestNeighbor, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("unknown interpolation %d", int(i))
}

// Resize scales a buffer to exactly width x height with the given filter.
// The channel count is preserved.
//
// Returns ErrInvalidSize if either target dimension is not positive.
func Resize(buf *PixelBuffer, width, height int, interp Interpolation) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize target %dx%d", ErrInvalidSize, width, height)
	}
	filter, err := interp.filter()
	if err != nil {
		return nil, err
	}

	resized := imaging.Resize(buf.ToImage(), width, height, filter)

	mode := ModeColor
	if buf.IsGray() {
		mode = ModeGrayscale
	}
	return FromImage(resized, mode)
}
