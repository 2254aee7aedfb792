// Package datasource implements dataset.Source over plain transports: a
// single HTTP GET and a local JSON file.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/InsightBoard/pkg/errors"
)

const userAgent = "insightboard/1.0"

// errBodyLimit caps how much of an error response is kept for diagnostics.
const errBodyLimit = 512

// HTTPSource fetches the whole collection with one GET.  It never retries.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     logging.Logger
}

// HTTPOption customizes an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHTTPSource validates rawURL and returns a source for it.  timeout
// bounds the whole request including the body read; 0 means none.
func NewHTTPSource(rawURL string, timeout time.Duration, opts ...HTTPOption) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dataset url: %v", apperrors.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: dataset url scheme must be http or https", apperrors.ErrInvalidConfig)
	}

	s := &HTTPSource{
		url:        u.String(),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements dataset.Source.
func (s *HTTPSource) Name() string { return "http" }

// URL returns the endpoint.
func (s *HTTPSource) URL() string { return s.url }

// Fetch implements dataset.Source.  A transport error or non-2xx status is
// ErrCodeExternalService; an undecodable body is ErrCodeDataParse.
func (s *HTTPSource) Fetch(ctx context.Context) ([]record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build dataset request")
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, "dataset request failed")
	}
	defer resp.Body.Close()

	s.logger.Debug("dataset response",
		logging.String("url", s.url),
		logging.Int("status", resp.StatusCode),
		logging.String("request_id", requestID),
		logging.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, apperrors.New(apperrors.ErrCodeExternalService, "dataset request failed").
			WithDetail(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body))
	}

	records, err := record.Decode(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDataParse, "decode dataset")
	}
	return records, nil
}

//Personal.AI order the ending
