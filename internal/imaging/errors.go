package imaging

import "errors"

var (
	// ErrEmptyInput is returned when a collage is requested for zero images.
	ErrEmptyInput = errors.New("empty image list")

	// ErrInvalidRegion is returned when a crop rectangle is empty or leaves the image.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrInvalidSize is returned for non-positive dimensions or negative margins.
	ErrInvalidSize = errors.New("invalid size")

	// ErrUnsupportedFormat is returned when encoding to an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
