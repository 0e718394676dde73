package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlspack/hlspack/internal/cache"
	"github.com/hlspack/hlspack/internal/catalog"
	"github.com/hlspack/hlspack/internal/hls"
	"github.com/hlspack/hlspack/internal/metrics"
	"github.com/hlspack/hlspack/internal/streaming"
	"github.com/hlspack/hlspack/internal/transcode"
)

type okExecutor struct{}

func (okExecutor) Transcode(_ context.Context, _ transcode.Job, outputPath string) error {
	return os.WriteFile(outputPath, []byte("tsdata"), 0644)
}

type failExecutor struct{}

func (failExecutor) Transcode(_ context.Context, _ transcode.Job, _ string) error {
	return hls.ErrTranscodeFailed
}

func newTestRouter(t *testing.T, executor streaming.Executor) (*chi.Mux, *cache.Cache) {
	t.Helper()

	c := cache.New(t.TempDir())
	provider := catalog.Static{
		"42": {ID: "42", DurationSec: 100, SourcePath: "/mnt/nas/movie.mkv", Resolution: "1920x1080"},
		"43": {ID: "43", DurationSec: 30, SourcePath: "/mnt/nas/clip.mp4", Resolution: "640x360"},
	}

	svc := streaming.New(provider, c, executor, metrics.New(), 6)

	router := chi.NewRouter()
	New(svc, metrics.New()).Mount(router)
	return router, c
}

func get(router *chi.Mux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMasterManifestRoute(t *testing.T) {
	router, _ := newTestRouter(t, okExecutor{})

	rec := get(router, "/vod/42/manifest.m3u8")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", rec.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=3600", rec.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "#EXTM3U"))
	assert.Contains(t, rec.Body.String(), "playlist_1080p.m3u8")

	rec = get(router, "/vod/999/manifest.m3u8")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQualityManifestRoute(t *testing.T) {
	router, _ := newTestRouter(t, okExecutor{})

	rec := get(router, "/vod/42/playlist_720p.m3u8")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#EXT-X-PLAYLIST-TYPE:VOD")
	assert.Contains(t, rec.Body.String(), "#EXT-X-ENDLIST")

	rec = get(router, "/vod/42/playlist_4k.m3u8")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSegmentRoute(t *testing.T) {
	router, _ := newTestRouter(t, okExecutor{})

	rec := get(router, "/vod/42/segment_00000.ts?quality=480p")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp2t", rec.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "tsdata", rec.Body.String())

	// default quality applies when none given
	rec = get(router, "/vod/42/segment_00001.ts")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/vod/42/segment_00017.ts")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(router, "/vod/42/segment_abc.ts")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(router, "/vod/42/segment_00000.ts?quality=999p")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSegmentRouteTranscodeFailure(t *testing.T) {
	router, _ := newTestRouter(t, failExecutor{})

	rec := get(router, "/vod/42/segment_00000.ts")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQualityOptionsRoute(t *testing.T) {
	router, _ := newTestRouter(t, okExecutor{})

	rec := get(router, "/vod/43/quality-options")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var options struct {
		Qualities []string `json:"qualities"`
		Default   string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, []string{"360p"}, options.Qualities)
	assert.Equal(t, "360p", options.Default)
}

func TestInvalidateRoute(t *testing.T) {
	router, c := newTestRouter(t, okExecutor{})

	// materialize one segment, then drop the tree
	rec := get(router, "/vod/42/segment_00000.ts")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, c.Exists("42", hls.Quality720p, 0))

	del := httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/vod/42/cache", nil))
	assert.Equal(t, http.StatusNoContent, del.Code)
	assert.False(t, c.Exists("42", hls.Quality720p, 0))
}

func TestHealthRoute(t *testing.T) {
	router, _ := newTestRouter(t, okExecutor{})

	rec := get(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
