package handlers

import (
	"github.com/turtacn/InsightBoard/internal/application/dashboard"
	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/query"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/types/common"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

func toScore(n record.Number) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func toRecord(r *record.Record) dto.Record {
	return dto.Record{
		ID:         r.ID,
		Published:  r.Published.Raw,
		Added:      r.Added.Raw,
		Title:      r.Title,
		Insight:    r.Insight,
		URL:        r.URL,
		Topic:      r.Topic,
		Sector:     r.Sector,
		Region:     r.Region,
		Country:    r.Country,
		City:       r.City,
		Pest:       r.Pest,
		Source:     r.Source,
		SWOT:       r.SWOT,
		Impact:     r.Impact,
		Intensity:  toScore(r.Intensity),
		Likelihood: toScore(r.Likelihood),
		Relevance:  toScore(r.Relevance),
		StartYear:  toScore(r.StartYear),
		EndYear:    toScore(r.EndYear),
	}
}

func toRecords(records []record.Record) []dto.Record {
	out := make([]dto.Record, len(records))
	for i := range records {
		out[i] = toRecord(&records[i])
	}
	return out
}

func toScatter(points []analytics.ScatterPoint) []dto.ScatterPoint {
	out := make([]dto.ScatterPoint, len(points))
	for i, p := range points {
		out[i] = dto.ScatterPoint(p)
	}
	return out
}

func toFacets(options map[record.FacetKey][]string, filters record.FilterState) []dto.Facet {
	out := make([]dto.Facet, 0, len(record.Facets))
	for _, key := range record.Facets {
		opts := options[key]
		if opts == nil {
			opts = []string{}
		}
		out = append(out, dto.Facet{
			Key:      string(key),
			Label:    key.Label(),
			Options:  opts,
			Selected: filters.Get(key),
		})
	}
	return out
}

func toKeys(keys []record.FacetKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func toFilters(filters record.FilterState) map[string]string {
	out := make(map[string]string)
	for k, v := range filters.Map() {
		out[string(k)] = v
	}
	return out
}

func toDatasetInfo(snap *dataset.Snapshot) dto.DatasetInfo {
	return dto.DatasetInfo{
		Version:         snap.Version,
		Source:          snap.Source,
		RecordCount:     snap.Len(),
		FetchedAt:       snap.FetchedAt,
		FetchDurationMS: snap.FetchDuration.Milliseconds(),
		Slow:            snap.Slow,
	}
}

func toRecordsResponse(v *dashboard.View) dto.RecordsResponse {
	q := v.Query
	return dto.RecordsResponse{
		Rows:            toRecords(v.Rows),
		Pagination:      common.NewPaginationResult(q.Page.Index, q.Page.Size, v.TotalRows),
		Filters:         toFilters(q.Filters),
		ActiveFilters:   q.Filters.ActiveCount(),
		StaleSelections: toKeys(v.Stale),
		Search:          q.Search,
		Sort:            toSort(q.Sort),
	}
}

func toSort(s query.SortSpec) dto.Sort {
	return dto.Sort{Field: string(s.Field), Order: string(s.Direction)}
}

func toDashboardResponse(v *dashboard.View) dto.DashboardResponse {
	views := v.Views
	return dto.DashboardResponse{
		RecordsResponse:    toRecordsResponse(v),
		Statistics:         dto.Statistics(views.Statistics),
		SectorDistribution: dto.Distribution(views.Distribution),
		Heatmap:            dto.Heatmap(views.Heatmap),
		Scatter:            toScatter(views.Scatter),
		YearSeries:         dto.YearSeries(views.YearSeries),
		Facets:             toFacets(v.Options, v.Query.Filters),
		Dataset:            toDatasetInfo(v.Snapshot),
	}
}

//Personal.AI order the ending
