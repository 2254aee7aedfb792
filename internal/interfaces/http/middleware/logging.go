package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
)

// LoggingConfig controls request logging.
type LoggingConfig struct {
	// SkipPaths are not logged.
	SkipPaths []string
	// SlowThreshold promotes slower successful requests to warnings.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the health endpoints and the metrics scrape.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs one line per request with method, path, status,
// duration and request id.  5xx responses log at error level, 4xx and slow
// requests at warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path += "?" + r.URL.RawQuery
			}
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", path),
				logging.Int("status", status),
				logging.Duration("duration", elapsed),
				logging.Int("bytes", ww.BytesWritten()),
				logging.String("remote_addr", r.RemoteAddr),
				logging.String("request_id", chimw.GetReqID(r.Context())),
			}

			switch {
			case status >= 500:
				logger.Error("request completed with server error", fields...)
			case status >= 400:
				logger.Warn("request completed with client error", fields...)
			case cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold:
				logger.Warn("slow request", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}

//Personal.AI order the ending
