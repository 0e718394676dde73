package catalog

import (
	"context"

	"github.com/hlspack/hlspack/internal/hls"
)

// Content is the read-only descriptor supplied by the content catalog.
// The streaming subsystem never mutates it.
type Content struct {
	ID          string `yaml:"id"`
	DurationSec int    `yaml:"duration-sec"`
	SourcePath  string `yaml:"source-path"`
	Resolution  string `yaml:"resolution,omitempty"` // "WxH", may be empty for unanalyzed files
}

// Provider is the consumed side of the content catalog. Lookups for unknown
// ids fail with hls.ErrContentNotFound. Authorization happens before any
// call reaches this interface, never behind it.
type Provider interface {
	GetContent(ctx context.Context, id string) (Content, error)
}

// Static is a fixed in-memory provider, mainly for tests.
type Static map[string]Content

func (s Static) GetContent(_ context.Context, id string) (Content, error) {
	content, ok := s[id]
	if !ok {
		return Content{}, hls.ErrContentNotFound
	}
	return content, nil
}
