package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests that did not hit any registered route, so
// that arbitrary paths cannot blow up metric cardinality.
const unmatchedRoute = "unmatched"

// withMetrics records method, route pattern, status and latency of every
// request.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		h.metrics.RecordHTTPRequest(r.Method, route, mw.statusCode(), time.Since(start))
	})
}
