package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/query"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/InsightBoard/pkg/errors"
)

// ExportResult locates an uploaded export.
type ExportResult struct {
	ObjectKey string
	URL       string
	Rows      int
	ExpiresAt time.Time
}

// ExportKey returns the object key of an export created at t.
func ExportKey(t time.Time, id uuid.UUID, ext string) string {
	return fmt.Sprintf("exports/%04d/%02d/%s.%s", t.Year(), int(t.Month()), id, ext)
}

// Export writes every row matching q, sorted and unpaginated, to a workbook,
// uploads it and returns a presigned download link.
func (s *Service) Export(ctx context.Context, q query.Query) (*ExportResult, error) {
	if s.renderer == nil || s.sink == nil {
		return nil, apperrors.New(apperrors.ErrCodeFeatureDisabled, "export is not configured")
	}
	if err := s.Validate(q); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	// The summary sheet covers the filtered set; search only narrows rows.
	filtered := query.Filter(snap.Records, q.Filters)
	rows := query.Sort(query.Search(filtered, q.Search), q.Sort)
	stats := analytics.ComputeStatistics(filtered)
	dist := analytics.SectorDistribution(filtered)
	s.metrics.ObservePipeline("export", time.Since(start))

	data, err := s.renderer.Render(rows, stats, dist)
	if err != nil {
		s.metrics.IncExport("error")
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "render workbook")
	}

	now := s.now().UTC()
	key := ExportKey(now, uuid.New(), s.renderer.Extension())
	if err := s.sink.PutObject(ctx, key, data, s.renderer.ContentType()); err != nil {
		s.metrics.IncExport("error")
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "upload workbook")
	}

	expiry := s.cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	url, err := s.sink.PresignedGetURL(ctx, key, expiry)
	if err != nil {
		s.metrics.IncExport("error")
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "presign workbook url")
	}

	s.metrics.IncExport("ok")
	s.logger.Info("export uploaded",
		logging.String("key", key),
		logging.Int("rows", len(rows)),
		logging.Int("bytes", len(data)))

	return &ExportResult{
		ObjectKey: key,
		URL:       url,
		Rows:      len(rows),
		ExpiresAt: now.Add(expiry),
	}, nil
}

//Personal.AI order the ending
