package imaging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// Store lists, decodes and encodes image files.
//
// Decode reports corrupt or unreadable files with an error rather than
// panicking, so callers can retry with another candidate.
type Store interface {
	List(root string) ([]string, error)
	Decode(path string, mode ColorMode) (*PixelBuffer, error)
	Encode(buf *PixelBuffer, path string) error
}

// BufferCache provides thread-safe caching of decoded buffers to avoid redundant
// disk reads.
//
// Entries are keyed by file path and color mode, so the same file decoded as
// color and as grayscale occupies two entries. Cached buffers are shared and
// must not be modified by callers.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or Clear().
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[cacheKey]*PixelBuffer
}

type cacheKey struct {
	path string
	mode ColorMode
}

// NewBufferCache creates and initializes a new empty buffer cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[cacheKey]*PixelBuffer),
	}
}

// Get returns the cached buffer for path and mode, if present.
func (c *BufferCache) Get(path string, mode ColorMode) (*PixelBuffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buf, ok := c.buffers[cacheKey{path, mode}]
	return buf, ok
}

// Put stores a decoded buffer.
func (c *BufferCache) Put(path string, mode ColorMode, buf *PixelBuffer) {
	c.mu.Lock()
	c.buffers[cacheKey{path, mode}] = buf
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Clear removes all buffers from the cache.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[cacheKey]*PixelBuffer)
	c.mu.Unlock()
}

// Evict removes every cached mode of the given path.
//
// If the path is not in the cache, this method does nothing.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, cacheKey{path, ModeColor})
	delete(c.buffers, cacheKey{path, ModeGrayscale})
	c.mu.Unlock()
}

// FileStore is a Store backed by the local file system.
//
// Decoding supports JPEG, PNG, BMP, GIF and TIFF. Encoding supports JPEG, PNG
// and BMP, selected by file extension. A FileStore is safe for concurrent use.
//
// # Example Usage
//
//	store := imaging.NewFileStore(imaging.NewBufferCache())
//	buf, err := store.Decode("/path/to/image.png", imaging.ModeColor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = store.Encode(buf, "/tmp/copy.jpg")
type FileStore struct {
	cache       *BufferCache
	jpegQuality int
}

// NewFileStore creates a file store. cache may be nil to disable caching.
func NewFileStore(cache *BufferCache) *FileStore {
	return &FileStore{cache: cache, jpegQuality: 95}
}

// List returns every regular file under root, recursively, in lexical order.
// No extension filtering is applied.
func (s *FileStore) List(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	return paths, nil
}

// Decode reads an image file into a buffer in the requested color mode.
//
// JPEG files carrying an EXIF orientation tag are rotated upright.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (s *FileStore) Decode(path string, mode ColorMode) (*PixelBuffer, error) {
	if s.cache != nil {
		if buf, ok := s.cache.Get(path, mode); ok {
			return buf, nil
		}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf, err := FromImage(img, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	if s.cache != nil {
		s.cache.Put(path, mode, buf)
	}
	return buf, nil
}

// Encode writes buf to path, creating parent directories as needed.
//
// The encoder is chosen from the extension: .jpg/.jpeg, .png or .bmp.
// Returns ErrUnsupportedFormat for any other extension.
func (s *FileStore) Encode(buf *PixelBuffer, path string) error {
	encoder, err := s.encoderFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := imgio.Save(path, buf.ToImage(), encoder); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if s.cache != nil {
		s.cache.Evict(path)
	}
	return nil
}

func (s *FileStore) encoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(s.jpegQuality), nil
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}
