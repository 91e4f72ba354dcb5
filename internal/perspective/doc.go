// Package perspective composites a foreground image onto a background through
// an arbitrary quadrilateral.
//
// The foreground's corners, in the order top-left, top-right, bottom-right,
// bottom-left, are mapped onto four destination points by a planar homography
// solved directly from the four correspondences (no outlier rejection). The
// foreground is warped into the background frame with bilinear sampling, and
// an all-ones buffer is warped the same way to obtain a coverage mask. The
// result is
//
//	background*(1-mask) + warped*mask
//
// per sample, rounded half away from zero and saturated to [0, 255]. Pixels
// outside the projected quadrilateral keep the background value exactly and
// pixels inside it take the warped foreground value exactly. Blend itself is a
// true linear blend and accepts fractional coverage.
package perspective
