package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/pkg/errors"
	"github.com/turtacn/InsightBoard/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	c, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return c
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.BaseURL())
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "insightboard-go-sdk/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://invalid", "invalid-url", "http://"} {
		_, err := NewClient(raw)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), raw)
	}
}

func TestNewClient_BaseURLTrailingSlash(t *testing.T) {
	c, err := NewClient("http://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.BaseURL())
}

func TestNewClient_WithOptions(t *testing.T) {
	customClient := &http.Client{Timeout: 10 * time.Second}
	logger := &testLogger{}
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(customClient),
		WithLogger(logger),
		WithRetryMax(5),
	)
	require.NoError(t, err)
	assert.Same(t, customClient, c.httpClient)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
}

func TestClient_Dashboard_LazyInit(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	assert.Nil(t, c.dashboard)

	var wg sync.WaitGroup
	got := make([]*DashboardClient, 50)
	for i := range got {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			got[idx] = c.Dashboard()
		}(i)
	}
	wg.Wait()
	for _, d := range got {
		assert.Same(t, got[0], d)
	}
}

// ---------------------------------------------------------------------------
// HTTP Execution Tests (do)
// ---------------------------------------------------------------------------

func TestClient_Do_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a", r.URL.Query().Get("k"))
		_, _ = w.Write([]byte(`{"value":"success"}`))
	})
	var resp struct {
		Value string `json:"value"`
	}
	require.NoError(t, c.get(context.Background(), "test", map[string][]string{"k": {"a"}}, &resp))
	assert.Equal(t, "success", resp.Value)
}

func TestClient_Do_RequestHeaders(t *testing.T) {
	ids := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "insightboard-go-sdk/")
		ids <- r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.get(context.Background(), "/test", nil, nil))
	require.NoError(t, c.get(context.Background(), "/test", nil, nil))

	id1, id2 := <-ids, <-ids
	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}

func TestClient_Do_4xxError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"COMMON_010","message":"sort field \"x\" is not a displayed column"}`))
	})
	err := c.get(context.Background(), "/test", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "COMMON_010", apiErr.Code)
	assert.Contains(t, apiErr.Message, "displayed column")
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDecodeAPIError_SharedEnvelope(t *testing.T) {
	body, err := json.Marshal(common.ErrorDetail{Code: "COMMON_016", Message: "rate limit exceeded"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		body        []byte
		wantCode    string
		wantMessage string
	}{
		{"envelope", body, "COMMON_016", "rate limit exceeded"},
		{"empty", nil, "", ""},
		{"plain text", []byte("bad gateway"), "", "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := decodeAPIError(http.StatusTooManyRequests, "req-1", tt.body)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, "req-1", apiErr.RequestID)
		})
	}
}

func TestClient_Do_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("404 page not found"))
	})
	err := c.get(context.Background(), "/nope", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "404 page not found", apiErr.Message)
}

func TestClient_Do_5xxRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.get(context.Background(), "/test", nil, nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_5xxRetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"DATA_003","message":"dataset not loaded"}`))
	}, WithRetryMax(2))
	err := c.get(context.Background(), "/test", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnavailable())
	assert.Equal(t, "DATA_003", apiErr.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.post(context.Background(), "/test", nil, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedNoRetryAfter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":"COMMON_016","message":"rate limit exceeded"}`))
	})
	err := c.post(context.Background(), "/test", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_Do_NetworkErrorRetry(t *testing.T) {
	logger := &testLogger{}
	c, err := NewClient("http://127.0.0.1:1",
		WithRetryMax(1),
		WithRetryWait(time.Millisecond, time.Millisecond),
		WithLogger(logger))
	require.NoError(t, err)

	err = c.get(context.Background(), "/test", nil, nil)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&logger.count), int32(2))
}

func TestClient_Do_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryWait(time.Second, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.get(ctx, "/test", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Do_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	})
	var out map[string]any
	err := c.get(context.Background(), "/test", nil, &out)
	assert.ErrorContains(t, err, "failed to unmarshal response")
}

func TestClient_CalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: time.Second}

	b1 := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, b1, 100*time.Millisecond)
	assert.Less(t, b1, 126*time.Millisecond)

	b5 := c.calculateBackoff(5)
	assert.GreaterOrEqual(t, b5, time.Second)
	assert.Less(t, b5, 1251*time.Millisecond)
}

//Personal.AI order the ending
