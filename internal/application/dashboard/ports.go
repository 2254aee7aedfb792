package dashboard

import (
	"context"
	"time"

	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// ============================================================================
// External Interfaces (Dependencies)
// ============================================================================

// EventPublisher announces dataset refreshes.
type EventPublisher interface {
	PublishRefreshed(ctx context.Context, evt *dataset.RefreshedEvent) error
}

// Metrics receives service-level measurements.
type Metrics interface {
	ObserveFetch(source string, d time.Duration, err error)
	IncSlowFetch(source string)
	SetDataset(version uint64, records int)
	ObservePipeline(view string, d time.Duration)
	IncExport(result string)
}

// WorkbookRenderer encodes matched rows and their summary as a workbook.
type WorkbookRenderer interface {
	Render(rows []record.Record, stats analytics.Statistics, dist analytics.Distribution) ([]byte, error)
	ContentType() string
	Extension() string
}

// ObjectSink stores export artifacts and hands out download links.
type ObjectSink interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(string, time.Duration, error) {}
func (nopMetrics) IncSlowFetch(string)                       {}
func (nopMetrics) SetDataset(uint64, int)                    {}
func (nopMetrics) ObservePipeline(string, time.Duration)     {}
func (nopMetrics) IncExport(string)                          {}

//Personal.AI order the ending
