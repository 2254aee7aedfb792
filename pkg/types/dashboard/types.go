// Package dashboard holds the wire types of the dashboard HTTP API.  The
// server encodes them and pkg/client decodes them.
package dashboard

import (
	"strconv"
	"time"

	"github.com/turtacn/InsightBoard/pkg/types/common"
)

// Record is one analytical observation as served by the API.  Absent scores
// are nil; absent dates are "".
type Record struct {
	ID         string   `json:"_id,omitempty"`
	Published  string   `json:"published"`
	Added      string   `json:"added"`
	Title      string   `json:"title"`
	Insight    string   `json:"insight"`
	URL        string   `json:"url"`
	Topic      string   `json:"topic"`
	Sector     string   `json:"sector"`
	Region     string   `json:"region"`
	Country    string   `json:"country"`
	City       string   `json:"city"`
	Pest       string   `json:"pest"`
	Source     string   `json:"source"`
	SWOT       string   `json:"swot"`
	Impact     string   `json:"impact"`
	Intensity  *float64 `json:"intensity"`
	Likelihood *float64 `json:"likelihood"`
	Relevance  *float64 `json:"relevance"`
	StartYear  *float64 `json:"start_year"`
	EndYear    *float64 `json:"end_year"`
}

// Column returns the display text of a table column, or "" when absent.
func (r Record) Column(name string) string {
	switch name {
	case "published":
		return r.Published
	case "title":
		return r.Title
	case "sector":
		return r.Sector
	case "topic":
		return r.Topic
	case "region":
		return r.Region
	case "country":
		return r.Country
	case "intensity":
		return formatScore(r.Intensity)
	case "likelihood":
		return formatScore(r.Likelihood)
	case "relevance":
		return formatScore(r.Relevance)
	}
	return ""
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Statistics are the headline numbers of the filtered collection.
type Statistics struct {
	TotalRecords  int     `json:"totalRecords"`
	AvgIntensity  float64 `json:"avgIntensity"`
	AvgLikelihood float64 `json:"avgLikelihood"`
	AvgRelevance  float64 `json:"avgRelevance"`
}

// Distribution is a count per sector in first-seen order.
type Distribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Heatmap is the dense sector×region mean intensity matrix.
type Heatmap struct {
	Sectors []string    `json:"sectors"`
	Regions []string    `json:"regions"`
	Values  [][]float64 `json:"values"`
}

// ScatterPoint is one record in intensity/likelihood/relevance space.
type ScatterPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Text    string  `json:"text"`
	Sector  string  `json:"sector"`
	Country string  `json:"country"`
}

// YearSeries holds parallel per-record arrays keyed by publication year.
type YearSeries struct {
	Years       []int     `json:"years"`
	Intensities []float64 `json:"intensities"`
	Likelihoods []float64 `json:"likelihoods"`
	Relevances  []float64 `json:"relevances"`
}

// Facet lists the selectable values of one facet.
type Facet struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

// Sort echoes the applied ordering.
type Sort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// DatasetInfo describes the current snapshot.
type DatasetInfo struct {
	Version         uint64    `json:"version"`
	Source          string    `json:"source"`
	RecordCount     int       `json:"record_count"`
	FetchedAt       time.Time `json:"fetched_at"`
	FetchDurationMS int64     `json:"fetch_duration_ms"`
	Slow            bool      `json:"slow"`
}

// RecordsResponse is one page of matched rows.
type RecordsResponse struct {
	Rows            []Record                `json:"rows"`
	Pagination      common.PaginationResult `json:"pagination"`
	Filters         map[string]string       `json:"filters"`
	ActiveFilters   int                     `json:"active_filters"`
	StaleSelections []string                `json:"stale_selections"`
	Search          string                  `json:"search,omitempty"`
	Sort            Sort                    `json:"sort"`
}

// DashboardResponse carries every view of one query.
type DashboardResponse struct {
	RecordsResponse
	Statistics         Statistics     `json:"statistics"`
	SectorDistribution Distribution   `json:"sectorDistribution"`
	Heatmap            Heatmap        `json:"heatmap"`
	Scatter            []ScatterPoint `json:"scatter"`
	YearSeries         YearSeries     `json:"yearSeries"`
	Facets             []Facet        `json:"facets"`
	Dataset            DatasetInfo    `json:"dataset"`
}

// FacetsResponse lists the options of every facet in panel order.
type FacetsResponse struct {
	Facets          []Facet  `json:"facets"`
	StaleSelections []string `json:"stale_selections"`
}

// ExportResponse locates an uploaded workbook.
type ExportResponse struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResponse is returned by the health and readiness endpoints.
type HealthResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

//Personal.AI order the ending
