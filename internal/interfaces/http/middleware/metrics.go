package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics receives one observation per served request.
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	TrackInFlight() func()
}

// unmatchedRoute labels requests no route matched, so arbitrary paths do not
// create series.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency by route pattern.
func Metrics(m HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.TrackInFlight()
			defer done()

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.ObserveHTTP(r.Method, route, status, time.Since(start))
		})
	}
}

//Personal.AI order the ending
