package streaming

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hlspack/hlspack/internal/cache"
	"github.com/hlspack/hlspack/internal/catalog"
	"github.com/hlspack/hlspack/internal/hls"
	"github.com/hlspack/hlspack/internal/metrics"
	"github.com/hlspack/hlspack/internal/transcode"
)

// Executor materializes one segment at outputPath, atomically.
type Executor interface {
	Transcode(ctx context.Context, job transcode.Job, outputPath string) error
}

// Service ties addressing, manifests, the segment cache and the transcoder
// together behind the three operations the HTTP layer needs. All state is
// constructor-injected; the only mutable shared state is the single-flight
// table guarding per-key transcodes.
type Service struct {
	logger   zerolog.Logger
	catalog  catalog.Provider
	cache    *cache.Cache
	executor Executor
	metrics  *metrics.Metrics

	segmentDurationSec int

	flights singleflight.Group
}

func New(provider catalog.Provider, segmentCache *cache.Cache, executor Executor, m *metrics.Metrics, segmentDurationSec int) *Service {
	if segmentDurationSec <= 0 {
		panic(fmt.Sprintf("invalid segment duration %d", segmentDurationSec))
	}

	return &Service{
		logger:             log.With().Str("module", "streaming").Logger(),
		catalog:            provider,
		cache:              segmentCache,
		executor:           executor,
		metrics:            m,
		segmentDurationSec: segmentDurationSec,
	}
}

// MasterManifest returns the top-level playlist for a content id.
// Fails with hls.ErrContentNotFound for unknown ids.
func (s *Service) MasterManifest(ctx context.Context, contentID string) (string, error) {
	content, err := s.catalog.GetContent(ctx, contentID)
	if err != nil {
		return "", err
	}

	return hls.MasterManifest(hls.AvailableQualities(content.Resolution))
}

// QualityManifest returns the VOD playlist for one rendition.
// Fails with hls.ErrInvalidQuality or hls.ErrContentNotFound.
func (s *Service) QualityManifest(ctx context.Context, contentID, quality string) (string, error) {
	if _, err := hls.ParseQuality(quality); err != nil {
		return "", err
	}

	content, err := s.catalog.GetContent(ctx, contentID)
	if err != nil {
		return "", err
	}

	return hls.QualityManifest(content.DurationSec, s.segmentDurationSec)
}

// QualityOptions lists the renditions a player may request for a content id.
type QualityOptions struct {
	Qualities []hls.Quality `json:"qualities"`
	Default   hls.Quality   `json:"default"`
}

func (s *Service) QualityOptions(ctx context.Context, contentID string) (QualityOptions, error) {
	content, err := s.catalog.GetContent(ctx, contentID)
	if err != nil {
		return QualityOptions{}, err
	}

	available := hls.AvailableQualities(content.Resolution)
	return QualityOptions{
		Qualities: available,
		Default:   hls.DefaultQuality(available),
	}, nil
}

// Segment returns a reader over one segment's MPEG-TS bytes, transcoding it
// first on a cache miss. Concurrent requests for the same segment share a
// single transcode; requests for different segments run fully in parallel.
// The caller must close the returned reader.
func (s *Service) Segment(ctx context.Context, contentID string, index int, quality string) (io.ReadCloser, error) {
	q, err := hls.ParseQuality(quality)
	if err != nil {
		return nil, err
	}

	content, err := s.catalog.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	total := hls.SegmentCount(content.DurationSec, s.segmentDurationSec)
	if index < 0 || index >= total {
		return nil, fmt.Errorf("%w: index %d, content has %d segments", hls.ErrSegmentOutOfRange, index, total)
	}

	if s.cache.Exists(contentID, q, index) {
		s.metrics.CacheHitsTotal.Inc()
		return s.cache.OpenForRead(contentID, q, index)
	}
	s.metrics.CacheMissesTotal.Inc()

	if err := s.materialize(ctx, content, contentID, q, index); err != nil {
		return nil, err
	}

	return s.cache.OpenForRead(contentID, q, index)
}

// materialize runs the per-key guarded transcode. The flight uses a context
// detached from any single caller: it is owned by whoever is in flight, so a
// disconnected client stops waiting without killing the process other
// waiters depend on. The executor's own timeout is the only bound.
func (s *Service) materialize(ctx context.Context, content catalog.Content, contentID string, q hls.Quality, index int) error {
	key := s.cache.Path(contentID, q, index)

	ch := s.flights.DoChan(key, func() (interface{}, error) {
		// a finished flight may have landed the file between our existence
		// check and joining the group
		if s.cache.Exists(contentID, q, index) {
			return nil, nil
		}

		if err := s.cache.EnsureDir(contentID, q); err != nil {
			return nil, fmt.Errorf("%w: create cache dir: %v", hls.ErrTranscodeFailed, err)
		}

		job := transcode.Job{
			SourcePath:  content.SourcePath,
			StartSec:    index * s.segmentDurationSec,
			DurationSec: s.segmentDurationSec,
			Quality:     q,
		}

		s.metrics.TranscodesTotal.Inc()
		s.metrics.TranscodesInFlight.Inc()
		defer s.metrics.TranscodesInFlight.Dec()

		start := time.Now()
		if err := s.executor.Transcode(context.Background(), job, key); err != nil {
			s.metrics.TranscodeFailures.Inc()
			return nil, err
		}
		s.metrics.TranscodeDuration.Observe(time.Since(start).Seconds())

		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn().Err(res.Err).Str("key", key).Bool("shared", res.Shared).Msg("segment materialization failed")
		}
		return res.Err
	case <-ctx.Done():
		// abandon only this caller's wait, the flight keeps running for others
		return ctx.Err()
	}
}

// Invalidate drops all cached segments for a content id, e.g. after the
// source file changed.
func (s *Service) Invalidate(_ context.Context, contentID string) error {
	return s.cache.Clear(contentID)
}
