// Package dataset owns the current record collection.  A Snapshot is
// immutable; refreshing swaps in a new one atomically.
package dataset

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// Source provides the full raw collection in one call.
type Source interface {
	// Name identifies the source in logs, metrics and events.
	Name() string
	Fetch(ctx context.Context) ([]record.Record, error)
}

// Meta describes how a snapshot was obtained.
type Meta struct {
	Source        string
	FetchedAt     time.Time
	FetchDuration time.Duration
	Slow          bool
}

// Snapshot is one fetch cycle's collection plus metadata.  Records must not
// be modified.
type Snapshot struct {
	Version uint64
	Records []record.Record
	Meta
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Store holds the current Snapshot.  Readers never block writers.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest snapshot, or nil before the first Replace.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Loaded reports whether a snapshot is available.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Replace installs records as the new snapshot wholesale and returns it.
// Versions start at 1 and increase by one per call.
func (s *Store) Replace(records []record.Record, meta Meta) *Snapshot {
	if records == nil {
		records = []record.Record{}
	}
	snap := &Snapshot{
		Version: s.version.Add(1),
		Records: records,
		Meta:    meta,
	}
	s.current.Store(snap)
	return snap
}

//Personal.AI order the ending
