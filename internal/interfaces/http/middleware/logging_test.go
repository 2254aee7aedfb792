package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/testutil"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("body"))
	})
}

func TestRequestLogging_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
		msg    string
	}{
		{http.StatusOK, "info", "request completed"},
		{http.StatusBadRequest, "warn", "request completed with client error"},
		{http.StatusServiceUnavailable, "error", "request completed with server error"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			t.Parallel()
			log := testutil.NewMockLogger()
			h := chimw.RequestID(RequestLogging(log, DefaultLoggingConfig())(statusHandler(tc.status)))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records?sector=Energy", nil))

			entry, ok := log.Find(tc.level, tc.msg)
			require.True(t, ok)
			fields := map[string]interface{}{}
			for _, f := range entry.Fields {
				fields[f.Key] = f.Value
			}
			assert.Equal(t, "/api/v1/records?sector=Energy", fields["path"])
			assert.Equal(t, tc.status, fields["status"])
			assert.Equal(t, 4, fields["bytes"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	log := testutil.NewMockLogger()
	h := RequestLogging(log, DefaultLoggingConfig())(statusHandler(http.StatusOK))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, log.GetMessages())
}

func TestRequestLogging_Slow(t *testing.T) {
	log := testutil.NewMockLogger()
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	h := RequestLogging(log, LoggingConfig{SlowThreshold: time.Millisecond})(slow)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	assert.True(t, log.HasMessage("warn", "slow request"))
}

//Personal.AI order the ending
