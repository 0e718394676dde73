package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hlspack/hlspack/internal/hls"
)

// Cache is the on-disk segment store. It owns the directory tree rooted at
// rootDir: one subtree per content id, one directory per quality, one file
// per segment index. Files are written once via atomic rename and never
// mutated, so concurrent readers need no locking.
type Cache struct {
	logger  zerolog.Logger
	rootDir string
}

func New(rootDir string) *Cache {
	return &Cache{
		logger:  log.With().Str("module", "cache").Logger(),
		rootDir: rootDir,
	}
}

// Path resolves a segment key to its absolute file path.
func (c *Cache) Path(contentID string, quality hls.Quality, index int) string {
	return filepath.Join(c.rootDir, hls.SegmentPath(contentID, quality, index))
}

// Exists reports whether a finished segment is present. Half-written files
// never appear at the final path, so a positive answer is trustworthy.
func (c *Cache) Exists(contentID string, quality hls.Quality, index int) bool {
	info, err := os.Stat(c.Path(contentID, quality, index))
	return err == nil && info.Mode().IsRegular()
}

// OpenForRead opens a cached segment for streaming. The caller must close
// the returned reader on every exit path.
func (c *Cache) OpenForRead(contentID string, quality hls.Quality, index int) (io.ReadCloser, error) {
	f, err := os.Open(c.Path(contentID, quality, index))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s/%d", hls.ErrSegmentNotFound, contentID, quality, index)
		}
		return nil, err
	}
	return f, nil
}

// EnsureDir creates the directory for a (content, quality) pair. Safe to
// call repeatedly and concurrently.
func (c *Cache) EnsureDir(contentID string, quality hls.Quality) error {
	dir := filepath.Join(c.rootDir, contentID, string(quality))
	return os.MkdirAll(dir, 0755)
}

// Clear removes the whole cache subtree for a content id. Readers holding
// open handles keep working, new opens fail and trigger regeneration.
func (c *Cache) Clear(contentID string) error {
	dir := filepath.Join(c.rootDir, contentID)
	c.logger.Info().Str("content_id", contentID).Str("dir", dir).Msg("clearing segment cache")
	return os.RemoveAll(dir)
}
