package background

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/image-synth/internal/imaging"
)

const (
	// DefaultMaxRetries bounds the decode attempts made by SampleImage.
	DefaultMaxRetries = 100

	// MinCropSize is the smallest crop side, in pixels.
	MinCropSize = 10
)

var (
	// ErrExhaustedRetries means every decode attempt failed. The candidate
	// pool most likely contains corrupted files.
	ErrExhaustedRetries = errors.New("max retries reached while trying to load image, probably some image files are corrupted")

	// ErrEmptyCandidatePool means no file under the root had a supported extension.
	ErrEmptyCandidatePool = errors.New("no candidate images found")

	// ErrImageTooSmall means the sampled image is narrower or shorter than MinCropSize.
	ErrImageTooSmall = errors.New("image smaller than minimum crop size")
)

var imageExts = []string{".jpg", ".png", ".bmp"}

// IsImagePath reports whether the last four characters of path are a
// supported image extension, ignoring case. ".jpeg" is deliberately not matched.
func IsImagePath(path string) bool {
	if len(path) < 4 {
		return false
	}
	ext := strings.ToLower(path[len(path)-4:])
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Rand is the random source used for every sampling decision.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Source is the part of imaging.Store a Sampler needs.
type Source interface {
	List(root string) ([]string, error)
	Decode(path string, mode imaging.ColorMode) (*imaging.PixelBuffer, error)
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithRand sets the random source. The default is a PCG source seeded from the clock.
func WithRand(r Rand) Option {
	return func(s *Sampler) { s.rand = r }
}

// WithLogger sets the logger used for failed decode attempts.
func WithLogger(l *log.Logger) Option {
	return func(s *Sampler) { s.logger = l }
}

// WithMaxRetries overrides DefaultMaxRetries. Values below 1 are ignored.
func WithMaxRetries(n int) Option {
	return func(s *Sampler) {
		if n >= 1 {
			s.maxRetries = n
		}
	}
}

// Sampler draws random background images from a fixed list of candidate files.
type Sampler struct {
	store      Source
	mode       imaging.ColorMode
	candidates []string
	maxRetries int
	rand       Rand
	logger     *log.Logger
}

// NewSampler lists every file under root through store and keeps those with
// a supported extension. An empty candidate list is not an error here; the
// first sample reports ErrEmptyCandidatePool instead.
//
// If grayscale is true, images are decoded as single-channel buffers.
func NewSampler(store Source, root string, grayscale bool, opts ...Option) (*Sampler, error) {
	paths, err := store.List(root)
	if err != nil {
		return nil, err
	}

	s := &Sampler{
		store:      store,
		mode:       imaging.ModeColor,
		maxRetries: DefaultMaxRetries,
	}
	if grayscale {
		s.mode = imaging.ModeGrayscale
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		seed := uint64(time.Now().UnixNano())
		s.rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	for _, p := range paths {
		if IsImagePath(p) {
			s.candidates = append(s.candidates, p)
		}
	}
	s.logger.Debug("background candidates", "root", root, "files", len(paths), "images", len(s.candidates))

	return s, nil
}

// Candidates returns a copy of the candidate paths.
func (s *Sampler) Candidates() []string {
	out := make([]string, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Mode returns the color mode used for decoding.
func (s *Sampler) Mode() imaging.ColorMode {
	return s.mode
}

// SampleImage returns a randomly chosen, successfully decoded candidate.
//
// # Errors
//
//   - ErrEmptyCandidatePool if there are no candidates
//   - ErrExhaustedRetries if every attempt failed to decode
func (s *Sampler) SampleImage() (*imaging.PixelBuffer, error) {
	buf, _, err := s.sample()
	return buf, err
}

func (s *Sampler) sample() (*imaging.PixelBuffer, string, error) {
	if len(s.candidates) == 0 {
		return nil, "", ErrEmptyCandidatePool
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		path := s.candidates[s.rand.IntN(len(s.candidates))]
		buf, err := s.store.Decode(path, s.mode)
		if err == nil {
			return buf, path, nil
		}
		lastErr = err
		s.logger.Debug("decode failed", "path", path, "attempt", attempt, "err", err)
	}

	s.logger.Warn("giving up on background sampling", "attempts", s.maxRetries, "err", lastErr)
	return nil, "", fmt.Errorf("%w (%d attempts, last error: %v)", ErrExhaustedRetries, s.maxRetries, lastErr)
}

// Crop describes one augmented crop.
type Crop struct {
	// Buffer is the resized crop.
	Buffer *imaging.PixelBuffer

	// Source is the path of the sampled image.
	Source string

	// Region is the cropped rectangle in source image coordinates.
	Region imaging.Rect

	// Interpolation is the filter used for resizing.
	Interpolation imaging.Interpolation
}

// SampleCrop returns a random crop of a random background, resized to
// exactly width x height.
func (s *Sampler) SampleCrop(width, height int) (*imaging.PixelBuffer, error) {
	c, err := s.SampleCropDetail(width, height)
	if err != nil {
		return nil, err
	}
	return c.Buffer, nil
}

// SampleCropDetail is SampleCrop that also reports how the crop was made.
//
// Random draws happen in a fixed order: image choice (one per attempt), X1,
// X2, Y1, Y2, then the interpolation method.
//
// Returns imaging.ErrInvalidSize for a non-positive target size and
// ErrImageTooSmall when the sampled image cannot hold a MinCropSize square.
func (s *Sampler) SampleCropDetail(width, height int) (*Crop, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop target %dx%d", imaging.ErrInvalidSize, width, height)
	}

	img, path, err := s.sample()
	if err != nil {
		return nil, err
	}

	region, err := RandomRect(s.rand, img.Width, img.Height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	crop, err := imaging.Crop(img, region)
	if err != nil {
		return nil, err
	}

	interp := imaging.Interpolations[s.rand.IntN(len(imaging.Interpolations))]
	resized, err := imaging.Resize(crop, width, height, interp)
	if err != nil {
		return nil, err
	}

	return &Crop{
		Buffer:        resized,
		Source:        path,
		Region:        region,
		Interpolation: interp,
	}, nil
}

// RandomRect draws a crop rectangle inside a width x height image.
//
//	x1 = uniform[0, width-MinCropSize]
//	x2 = x1 + MinCropSize + uniform[0, width-x1-MinCropSize]
//
// and likewise for y. Bounds are inclusive. Fixing x1 first biases crop widths
// toward the span remaining after it; augmentation depends on that distribution.
func RandomRect(r Rand, width, height int) (imaging.Rect, error) {
	if width < MinCropSize || height < MinCropSize {
		return imaging.Rect{}, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, width, height)
	}

	x1 := randInclusive(r, width-MinCropSize)
	x2 := x1 + MinCropSize + randInclusive(r, width-x1-MinCropSize)
	y1 := randInclusive(r, height-MinCropSize)
	y2 := y1 + MinCropSize + randInclusive(r, height-y1-MinCropSize)

	return imaging.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

// randInclusive returns a uniform integer in [0, hi].
func randInclusive(r Rand, hi int) int {
	return r.IntN(hi + 1)
}
