package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Middleware counts requests and error responses.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Inc()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if ww.Status() >= 400 {
			m.ErrorsTotal.Inc()
		}
	})
}
