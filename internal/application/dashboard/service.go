// Package dashboard orchestrates the dataset lifecycle and the query
// pipeline: it refreshes the store from a Source, runs queries over the
// current snapshot and exports matched rows.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/query"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/InsightBoard/pkg/errors"
)

// ============================================================================
// Configuration
// ============================================================================

// Config tunes the service.  Zero durations disable the matching behavior.
type Config struct {
	// FetchTimeout bounds one Source.Fetch call.
	FetchTimeout time.Duration
	// SlowThreshold marks fetches that took longer as slow.
	SlowThreshold time.Duration
	// RefreshInterval is the period of Run's refresh loop; 0 fetches once.
	RefreshInterval time.Duration
	// PageSizes are the allowed page sizes; empty allows any positive size.
	PageSizes []int
	// PresignExpiry is the lifetime of export download links.
	PresignExpiry time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sends a dataset.refreshed event after each refresh.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records service measurements.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithExporter enables Export.
func WithExporter(r WorkbookRenderer, sink ObjectSink) Option {
	return func(s *Service) {
		s.renderer = r
		s.sink = sink
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// ============================================================================
// Service
// ============================================================================

// Service is the dashboard application service.  It is safe for concurrent
// use.
type Service struct {
	source    dataset.Source
	store     *dataset.Store
	cfg       Config
	logger    logging.Logger
	publisher EventPublisher
	metrics   Metrics
	renderer  WorkbookRenderer
	sink      ObjectSink
	now       func() time.Time

	group           singleflight.Group
	refreshInterval atomic.Int64
	intervalChanged chan struct{}
}

// NewService wires a Service around source and store.
func NewService(source dataset.Source, store *dataset.Store, cfg Config, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		source:          source,
		store:           store,
		cfg:             cfg,
		logger:          logger.Named("dashboard"),
		metrics:         nopMetrics{},
		now:             time.Now,
		intervalChanged: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refreshInterval.Store(int64(cfg.RefreshInterval))
	return s
}

// ----------------------------------------------------------------------------
// Dataset lifecycle
// ----------------------------------------------------------------------------

// Refresh fetches the full collection and replaces the store wholesale.
// Concurrent calls share one fetch.  Any Source failure is reported as
// ErrCodeDataUnavailable and leaves the current snapshot in place.
func (s *Service) Refresh(ctx context.Context) (*dataset.Snapshot, error) {
	// Joined callers share the result, so one caller's cancellation must not
	// fail the others.
	v, err, shared := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.Debug("refresh coalesced")
	}
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Snapshot), nil
}

func (s *Service) refresh(ctx context.Context) (*dataset.Snapshot, error) {
	fetchCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	name := s.source.Name()
	start := s.now()
	records, err := s.source.Fetch(fetchCtx)
	elapsed := s.now().Sub(start)
	s.metrics.ObserveFetch(name, elapsed, err)
	if err != nil {
		s.logger.Error("dataset fetch failed",
			logging.String("source", name),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDataUnavailable, "data unavailable")
	}

	slow := s.cfg.SlowThreshold > 0 && elapsed > s.cfg.SlowThreshold
	snap := s.store.Replace(records, dataset.Meta{
		Source:        name,
		FetchedAt:     start,
		FetchDuration: elapsed,
		Slow:          slow,
	})
	s.metrics.SetDataset(snap.Version, snap.Len())
	if slow {
		s.metrics.IncSlowFetch(name)
		s.logger.Warn("slow dataset fetch",
			logging.String("source", name),
			logging.Duration("elapsed", elapsed),
			logging.Duration("threshold", s.cfg.SlowThreshold))
	}
	s.logger.Info("dataset refreshed",
		logging.String("source", name),
		logging.Uint64("version", snap.Version),
		logging.Int("records", snap.Len()),
		logging.Duration("elapsed", elapsed))

	if s.publisher != nil {
		if err := s.publisher.PublishRefreshed(ctx, dataset.NewRefreshedEvent(snap)); err != nil {
			s.logger.Warn("publish dataset.refreshed failed",
				logging.Uint64("version", snap.Version),
				logging.Err(err))
		}
	}
	return snap, nil
}

// Snapshot returns the current snapshot, or a DATA_UNAVAILABLE error that
// also carries ErrCodeDatasetNotLoaded when nothing has been fetched yet.
func (s *Service) Snapshot() (*dataset.Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, apperrors.Wrap(apperrors.ErrDatasetNotLoaded, apperrors.ErrCodeDataUnavailable, "data unavailable")
	}
	return snap, nil
}

// Records returns the raw records of the current snapshot.
func (s *Service) Records() ([]record.Record, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

// RefreshInterval returns the current refresh period.
func (s *Service) RefreshInterval() time.Duration {
	return time.Duration(s.refreshInterval.Load())
}

// SetRefreshInterval changes the period of a running refresh loop.  A value
// of 0 stops periodic refreshes without stopping Run.
func (s *Service) SetRefreshInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if time.Duration(s.refreshInterval.Swap(int64(d))) == d {
		return
	}
	select {
	case s.intervalChanged <- struct{}{}:
	default:
	}
}

// Run performs the initial fetch and then refreshes every RefreshInterval
// until ctx is cancelled.  Fetch failures are logged and retried on the
// next tick; the previous snapshot keeps serving.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Error("initial dataset fetch failed", logging.Err(err))
	}

	for {
		var tick <-chan time.Time
		var timer *time.Timer
		if d := s.RefreshInterval(); d > 0 {
			timer = time.NewTimer(d)
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case <-s.intervalChanged:
			stopTimer(timer)
			s.logger.Info("refresh interval changed", logging.Duration("interval", s.RefreshInterval()))
		case <-tick:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn("periodic refresh failed; keeping previous snapshot", logging.Err(err))
			}
		}
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// View is every derived view of one query over one snapshot.
type View struct {
	query.Result
	Query    query.Query
	Options  map[record.FacetKey][]string
	Stale    []record.FacetKey
	Snapshot *dataset.Snapshot
}

// FacetView lists the facet options of the current snapshot.
type FacetView struct {
	Options  map[record.FacetKey][]string
	Stale    []record.FacetKey
	Filters  record.FilterState
	Snapshot *dataset.Snapshot
}

// Validate checks q against the displayed columns and the allowed page
// sizes.  Violations are ErrCodeValidation errors.
func (s *Service) Validate(q query.Query) error {
	if !q.Sort.Field.IsColumn() {
		return apperrors.InvalidParam(fmt.Sprintf("sort field %q is not a displayed column", q.Sort.Field))
	}
	if q.Sort.Direction != query.Ascending && q.Sort.Direction != query.Descending {
		return apperrors.InvalidParam(fmt.Sprintf("sort order %q is invalid; expected asc|desc", q.Sort.Direction))
	}
	if q.Page.Index < 0 {
		return apperrors.InvalidParam("page must be >= 0")
	}
	if q.Page.Size <= 0 {
		return apperrors.InvalidParam("page_size must be > 0")
	}
	if len(s.cfg.PageSizes) > 0 && !slices.Contains(s.cfg.PageSizes, q.Page.Size) {
		return apperrors.InvalidParam(fmt.Sprintf("page_size must be one of %v", s.cfg.PageSizes))
	}
	return nil
}

// View runs q over the current snapshot.  Views follow the facet filters;
// rows additionally follow the search term.
func (s *Service) View(ctx context.Context, q query.Query) (*View, error) {
	if err := s.Validate(q); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := query.Run(snap.Records, q)
	options := query.FacetOptions(snap.Records)
	s.metrics.ObservePipeline("dashboard", time.Since(start))

	return &View{
		Result:   res,
		Query:    q,
		Options:  options,
		Stale:    query.StaleSelections(q.Filters, options),
		Snapshot: snap,
	}, nil
}

// Facets lists the distinct values of every facet and flags the selections
// in filters that no longer match the current snapshot.
func (s *Service) Facets(ctx context.Context, filters record.FilterState) (*FacetView, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	options := query.FacetOptions(snap.Records)
	s.metrics.ObservePipeline("facets", time.Since(start))

	return &FacetView{
		Options:  options,
		Stale:    query.StaleSelections(filters, options),
		Filters:  filters,
		Snapshot: snap,
	}, nil
}

//Personal.AI order the ending
