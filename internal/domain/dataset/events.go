package dataset

import (
	"time"

	"github.com/turtacn/InsightBoard/pkg/types/common"
)

// EventTypeRefreshed is the type name of RefreshedEvent.
const EventTypeRefreshed = "dataset.refreshed"

// RefreshedEvent announces a newly installed snapshot.  The aggregate is the
// source name, which also keys the message.
type RefreshedEvent struct {
	common.BaseEvent
	Type            string    `json:"type"`
	Version         uint64    `json:"version"`
	Source          string    `json:"source"`
	RecordCount     int       `json:"record_count"`
	FetchedAt       time.Time `json:"fetched_at"`
	FetchDurationMS int64     `json:"fetch_duration_ms"`
	Slow            bool      `json:"slow"`
}

// NewRefreshedEvent describes snap.
func NewRefreshedEvent(snap *Snapshot) *RefreshedEvent {
	return &RefreshedEvent{
		BaseEvent:       common.NewBaseEvent(snap.Source),
		Type:            EventTypeRefreshed,
		Version:         snap.Version,
		Source:          snap.Source,
		RecordCount:     snap.Len(),
		FetchedAt:       snap.FetchedAt,
		FetchDurationMS: snap.FetchDuration.Milliseconds(),
		Slow:            snap.Slow,
	}
}

//Personal.AI order the ending
