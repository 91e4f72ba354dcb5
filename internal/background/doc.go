// Package background samples random background images and augmented crops
// from a directory tree.
//
// A Sampler enumerates candidate files once, at construction, keeping only
// paths whose last four characters are ".jpg", ".png" or ".bmp" in any case.
// Each sample picks a candidate uniformly at random, with replacement, and
// tries to decode it. Corrupt files are skipped by drawing again, up to a
// fixed number of attempts, after which ErrExhaustedRetries is returned.
//
// # Randomness
//
// All random choices go through the Rand interface so that tests and
// reproducible runs can inject a seeded source. A Sampler is not safe for
// concurrent use unless its Rand is; create one Sampler per goroutine.
//
// # Crop Sampling
//
// SampleCrop draws a rectangle in two stages per axis: the start coordinate
// first, then the extent over whatever span remains after it. Both sides are
// at least MinCropSize pixels. The crop is then resized to the requested size
// with an interpolation method chosen uniformly from imaging.Interpolations.
package background
