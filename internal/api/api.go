package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hlspack/hlspack/internal/metrics"
	"github.com/hlspack/hlspack/internal/streaming"
)

type ApiManagerCtx struct {
	logger    zerolog.Logger
	streaming *streaming.Service
	metrics   *metrics.Metrics
}

func New(s *streaming.Service, m *metrics.Metrics) *ApiManagerCtx {
	return &ApiManagerCtx{
		logger:    log.With().Str("module", "api").Logger(),
		streaming: s,
		metrics:   m,
	}
}

func (a *ApiManagerCtx) Mount(r *chi.Mux) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		//nolint
		w.Write([]byte("ok"))
	})

	r.Method("GET", "/metrics", a.metrics.Handler())

	r.Route("/vod/{contentID}", func(r chi.Router) {
		r.Use(a.metrics.Middleware)

		r.Get("/manifest.m3u8", a.masterManifest)
		r.Get("/playlist_{quality}.m3u8", a.qualityManifest)
		r.Get("/segment_{index}.ts", a.segment)
		r.Get("/quality-options", a.qualityOptions)
		r.Delete("/cache", a.invalidate)
	})
}
