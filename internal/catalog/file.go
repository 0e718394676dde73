package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/hlspack/hlspack/internal/hls"
)

// FileProvider serves content descriptors from a YAML file:
//
//	contents:
//	  - id: "42"
//	    duration-sec: 5400
//	    source-path: /mnt/nas/movie.mkv
//	    resolution: 1920x1080
//
// The file is reloaded when it changes on disk, so re-ingests show up
// without a restart.
type FileProvider struct {
	logger zerolog.Logger
	path   string

	mu       sync.RWMutex
	contents map[string]Content
}

type catalogFile struct {
	Contents []Content `yaml:"contents"`
}

func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{
		logger: log.With().Str("module", "catalog").Logger(),
		path:   path,
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *FileProvider) GetContent(_ context.Context, id string) (Content, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	content, ok := p.contents[id]
	if !ok {
		return Content{}, fmt.Errorf("%w: %s", hls.ErrContentNotFound, id)
	}
	return content, nil
}

func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}

	contents := make(map[string]Content, len(file.Contents))
	for _, content := range file.Contents {
		if content.ID == "" {
			return fmt.Errorf("catalog file: entry without id")
		}
		contents[content.ID] = content
	}

	p.mu.Lock()
	p.contents = contents
	p.mu.Unlock()

	p.logger.Info().Int("contents", len(contents)).Str("path", p.path).Msg("catalog loaded")
	return nil
}

// Watch reloads the catalog on file changes until ctx is cancelled. A bad
// intermediate write keeps the previous catalog in place.
func (p *FileProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(p.path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := p.Reload(); err != nil {
					p.logger.Warn().Err(err).Msg("catalog reload failed, keeping previous")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Warn().Err(err).Msg("catalog watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
