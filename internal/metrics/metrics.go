package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the packaging subsystem,
// registered on an own registry so tests can construct them freely.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      prometheus.Counter
	ErrorsTotal        prometheus.Counter
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	TranscodesTotal    prometheus.Counter
	TranscodeFailures  prometheus.Counter
	TranscodesInFlight prometheus.Gauge
	TranscodeDuration  prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		ErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_segment_cache_hits_total",
			Help: "Segment requests served from the on-disk cache",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_segment_cache_misses_total",
			Help: "Segment requests that required a transcode",
		}),
		TranscodesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_transcodes_total",
			Help: "Transcode processes started",
		}),
		TranscodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hlspack_transcode_failures_total",
			Help: "Transcode processes that failed or timed out",
		}),
		TranscodesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hlspack_transcodes_in_flight",
			Help: "Transcode processes currently running",
		}),
		TranscodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hlspack_transcode_duration_seconds",
			Help:    "Wall time of successful transcode processes",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.ErrorsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.TranscodesTotal,
		m.TranscodeFailures,
		m.TranscodesInFlight,
		m.TranscodeDuration,
	)

	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
