// Package imaging provides the pixel-buffer model and the stateless image
// operations used to assemble synthetic training imagery.
//
// This package implements the in-memory PixelBuffer representation, conversion
// between grayscale and color buffers, rectangular cropping, filtered resizing,
// grid collage composition and a file-backed image store. All operations use a
// coordinate system where (0,0) is at the top-left corner, X increases rightward,
// and Y increases downward.
//
// # Pixel Buffers
//
// A PixelBuffer holds 8-bit samples in row-major, channel-interleaved order:
//   - 1 channel: grayscale
//   - 3 channels: color, stored as R, G, B
//
// Every operation returns a new buffer; inputs are never modified.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based. For regions, (X1,Y1) is
// inclusive (top-left) and (X2,Y2) is exclusive (bottom-right).
//
// # Thread Safety
//
// Buffer operations are stateless and can be called concurrently. BufferCache
// and FileStore are safe for concurrent use.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Crop regions outside image bounds (ErrInvalidRegion)
//   - Non-positive target dimensions (ErrInvalidSize)
//   - Empty collage input (ErrEmptyInput)
//   - File I/O and codec errors from the store
package imaging
