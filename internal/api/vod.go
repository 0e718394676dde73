package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hlspack/hlspack/internal/hls"
)

const manifestContentType = "application/vnd.apple.mpegurl"

func (a *ApiManagerCtx) masterManifest(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")

	manifest, err := a.streaming.MasterManifest(r.Context(), contentID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", manifestContentType)
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write([]byte(manifest))
}

func (a *ApiManagerCtx) qualityManifest(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")
	quality := chi.URLParam(r, "quality")

	manifest, err := a.streaming.QualityManifest(r.Context(), contentID, quality)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", manifestContentType)
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write([]byte(manifest))
}

func (a *ApiManagerCtx) segment(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "400 bad segment index", http.StatusBadRequest)
		return
	}

	quality := r.URL.Query().Get("quality")
	if quality == "" {
		quality = string(hls.Quality720p)
	}

	segment, err := a.streaming.Segment(r.Context(), contentID, index, quality)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	defer segment.Close()

	w.Header().Set("Content-Type", "video/mp2t")
	w.Header().Set("Cache-Control", "max-age=86400")

	if _, err := io.Copy(w, segment); err != nil {
		// client went away mid-stream, the cache file is untouched
		a.logger.Debug().Err(err).Str("content_id", contentID).Int("index", index).Msg("segment stream aborted")
	}
}

func (a *ApiManagerCtx) qualityOptions(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")

	options, err := a.streaming.QualityOptions(r.Context(), contentID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(options)
}

func (a *ApiManagerCtx) invalidate(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")

	if err := a.streaming.Invalidate(r.Context(), contentID); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps the closed failure taxonomy onto HTTP statuses. Transcode
// failures are transient 503s so players retry on their own schedule.
func (a *ApiManagerCtx) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, hls.ErrContentNotFound):
		http.Error(w, "404 content not found", http.StatusNotFound)
	case errors.Is(err, hls.ErrSegmentOutOfRange), errors.Is(err, hls.ErrSegmentNotFound):
		http.Error(w, "404 segment not found", http.StatusNotFound)
	case errors.Is(err, hls.ErrInvalidQuality):
		http.Error(w, "400 invalid quality", http.StatusBadRequest)
	case errors.Is(err, hls.ErrTranscodeFailed), errors.Is(err, hls.ErrTranscodeTimeout):
		http.Error(w, "503 segment temporarily unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, hls.ErrSourceUnreadable):
		http.Error(w, "500 source unreadable", http.StatusInternalServerError)
	case errors.Is(err, context.Canceled):
		// client disconnected while waiting, nothing to write
	default:
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		http.Error(w, "500 internal error", http.StatusInternalServerError)
	}
}
