package perspective

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-synth/internal/imaging"
)

// CompositeWarped projects foreground onto background so that its corners
// (top-left, top-right, bottom-right, bottom-left) land on dst, and blends it
// in by exact coverage.
//
// A foreground whose channel count differs from the background is converted
// first: grayscale is replicated to RGB, RGB is reduced to BT.601 luma. The
// result has the background's size and channel count; neither input is modified.
//
// # Errors
//
//   - ErrDegenerateHomography if dst has three collinear points, or the
//     foreground is a single row or column
func CompositeWarped(background, foreground *imaging.PixelBuffer, dst Quad) (*imaging.PixelBuffer, error) {
	if background == nil || foreground == nil {
		return nil, errors.New("background and foreground are required")
	}

	fg := foreground
	if fg.Channels != background.Channels {
		fg = fg.WithChannels(background.Channels)
	}

	h, err := FindHomography(Corners(fg.Width, fg.Height), dst)
	if err != nil {
		return nil, err
	}

	transformed, mask, err := Warp(fg, h, background.Width, background.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to warp foreground: %w", err)
	}

	return Blend(background, transformed, mask)
}
