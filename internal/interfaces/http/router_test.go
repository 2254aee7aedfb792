package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/application/dashboard"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/handlers"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/middleware"
	"github.com/turtacn/InsightBoard/internal/testutil"
)

type fixedSource struct{}

func (fixedSource) Name() string { return "fixed" }

func (fixedSource) Fetch(context.Context) ([]record.Record, error) {
	return testutil.SampleRecords(), nil
}

type denyLimiter struct{ calls int }

func (d *denyLimiter) Allow(string) (bool, middleware.RateLimitInfo) {
	d.calls++
	return false, middleware.RateLimitInfo{Limit: 1, ResetAt: time.Now().Add(time.Second)}
}

type routeMetrics struct{ routes []string }

func (m *routeMetrics) ObserveHTTP(_, route string, _ int, _ time.Duration) {
	m.routes = append(m.routes, route)
}
func (m *routeMetrics) TrackInFlight() func() { return func() {} }

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) http.Handler {
	t.Helper()
	svc := dashboard.NewService(fixedSource{}, dataset.NewStore(), dashboard.Config{PageSizes: []int{10, 25}}, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	cfg := RouterConfig{
		DashboardHandler: handlers.NewDashboardHandler(svc, 10, nil),
		HealthHandler:    handlers.NewHealthHandler("test"),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/api/data", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard", http.StatusOK},
		{http.MethodGet, "/api/v1/records?page_size=25", http.StatusOK},
		{http.MethodGet, "/api/v1/facets", http.StatusOK},
		{http.MethodGet, "/api/v1/stats", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/sectors", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/heatmap", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/scatter", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/years", http.StatusOK},
		{http.MethodGet, "/api/v1/dataset", http.StatusOK},
		{http.MethodPost, "/api/v1/dataset/refresh", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/records", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", http.StatusNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			t.Parallel()
			w := do(router, tc.method, tc.path)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestNewRouter_ServesLoadedDataset(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/stats")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["totalRecords"])
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	metrics := &routeMetrics{}
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.HTTPMetrics = metrics
		cfg.MetricsPath = "/internal/metrics"
		cfg.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		})
	})

	w := do(router, http.MethodGet, "/internal/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "metrics", w.Body.String())

	do(router, http.MethodGet, "/api/v1/charts/years")
	assert.Contains(t, metrics.routes, "/api/v1/charts/years")
}

func TestNewRouter_WriteLimiter(t *testing.T) {
	t.Parallel()
	limiter := &denyLimiter{}
	router := newTestRouter(t, func(cfg *RouterConfig) { cfg.WriteLimiter = limiter })

	w := do(router, http.MethodPost, "/api/v1/dataset/refresh")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = do(router, http.MethodPost, "/api/v1/exports")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// reads are never limited
	w = do(router, http.MethodGet, "/api/v1/records")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, limiter.calls)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.CORS = middleware.DefaultCORSConfig()
		cfg.CORS.AllowedOrigins = []string{"https://board.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/records", nil)
	req.Header.Set("Origin", "https://board.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://board.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_OmitsNilHandlers(t *testing.T) {
	t.Parallel()
	router := NewRouter(RouterConfig{})

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/records").Code)
}

//Personal.AI order the ending
