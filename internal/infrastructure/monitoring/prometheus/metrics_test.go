package prometheus

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestDashboardMetrics(t *testing.T) (*DashboardMetrics, MetricsCollector) {
	c := newTestCollector(t)
	return NewDashboardMetrics(c), c
}

func TestDashboardMetrics_ObserveFetch(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.ObserveFetch("http", 200*time.Millisecond, nil)
	m.ObserveFetch("http", 300*time.Millisecond, nil)
	m.ObserveFetch("http", time.Second, errors.New("boom"))

	out := scrapeMetrics(t, c)
	assertSample(t, out, `test_unit_dataset_fetch_total{result="ok",source="http"}`, "2")
	assertSample(t, out, `test_unit_dataset_fetch_total{result="error",source="http"}`, "1")
	assertSample(t, out, `test_unit_dataset_fetch_duration_seconds_count{source="http"}`, "3")
}

func TestDashboardMetrics_IncSlowFetch(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.IncSlowFetch("file")

	assertSample(t, scrapeMetrics(t, c), `test_unit_dataset_slow_fetch_total{source="file"}`, "1")
}

func TestDashboardMetrics_SetDataset(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.SetDataset(3, 120)
	m.SetDataset(4, 118)

	out := scrapeMetrics(t, c)
	assertSample(t, out, "test_unit_dataset_version", "4")
	assertSample(t, out, "test_unit_dataset_records", "118")
}

func TestDashboardMetrics_ObservePipeline(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.ObservePipeline("records", time.Millisecond)
	m.ObservePipeline("heatmap", time.Millisecond)
	m.ObservePipeline("records", time.Millisecond)

	out := scrapeMetrics(t, c)
	assertSample(t, out, `test_unit_pipeline_duration_seconds_count{view="records"}`, "2")
	assertSample(t, out, `test_unit_pipeline_duration_seconds_count{view="heatmap"}`, "1")
}

func TestDashboardMetrics_IncExport(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.IncExport(ResultOK)
	m.IncExport(ResultError)
	m.IncExport(ResultOK)

	out := scrapeMetrics(t, c)
	assertSample(t, out, `test_unit_exports_total{result="ok"}`, "2")
	assertSample(t, out, `test_unit_exports_total{result="error"}`, "1")
}

func TestDashboardMetrics_ObserveHTTP(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	m.ObserveHTTP(http.MethodGet, "/api/v1/records", http.StatusOK, 5*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/v1/records", http.StatusBadRequest, time.Millisecond)

	out := scrapeMetrics(t, c)
	assertSample(t, out, `test_unit_http_requests_total{method="GET",route="/api/v1/records",status="200"}`, "1")
	assertSample(t, out, `test_unit_http_requests_total{method="GET",route="/api/v1/records",status="400"}`, "1")
	assertSample(t, out, `test_unit_http_request_duration_seconds_count{method="GET",route="/api/v1/records"}`, "2")
}

func TestDashboardMetrics_TrackInFlight(t *testing.T) {
	m, c := newTestDashboardMetrics(t)
	done := m.TrackInFlight()
	assertSample(t, scrapeMetrics(t, c), "test_unit_http_requests_in_flight", "1")

	done()
	assertSample(t, scrapeMetrics(t, c), "test_unit_http_requests_in_flight", "0")
}

func TestDashboardMetrics_RegisterTwiceSharesSeries(t *testing.T) {
	c := newTestCollector(t)
	a := NewDashboardMetrics(c)
	b := NewDashboardMetrics(c)
	a.IncExport(ResultOK)
	b.IncExport(ResultOK)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_exports_total{result="ok"} 2`)
}

//Personal.AI order the ending
