package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method, route string
	status        int
}

type recordingHTTPMetrics struct {
	mu       sync.Mutex
	seen     []observation
	inFlight int
	peak     int
}

func (m *recordingHTTPMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observation{method, route, status})
}

func (m *recordingHTTPMetrics) TrackInFlight() func() {
	m.mu.Lock()
	m.inFlight++
	m.peak = max(m.peak, m.inFlight)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	m := &recordingHTTPMetrics{}
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/charts/{chart}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	for _, path := range []string{"/api/v1/charts/heatmap", "/api/v1/stats", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, m.seen, 3)
	assert.Equal(t, observation{"GET", "/api/v1/charts/{chart}", http.StatusTeapot}, m.seen[0])
	assert.Equal(t, observation{"GET", "/api/v1/stats", http.StatusOK}, m.seen[1])
	assert.Equal(t, http.StatusNotFound, m.seen[2].status)
	assert.Equal(t, 0, m.inFlight)
	assert.Equal(t, 1, m.peak)
}

//Personal.AI order the ending
