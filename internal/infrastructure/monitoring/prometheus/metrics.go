package prometheus

import (
	"strconv"
	"time"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	fetchBuckets    = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	pipelineBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
	httpBuckets     = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
)

// DashboardMetrics holds every metric InsightBoard exports.  It satisfies the
// dashboard service's metrics port.
type DashboardMetrics struct {
	FetchDuration    HistogramVec
	FetchTotal       CounterVec
	SlowFetchTotal   CounterVec
	DatasetRecords   GaugeVec
	DatasetVersion   GaugeVec
	PipelineDuration HistogramVec
	ExportsTotal     CounterVec

	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPInFlight        GaugeVec
}

// NewDashboardMetrics registers all metrics with c.
func NewDashboardMetrics(c MetricsCollector) *DashboardMetrics {
	return &DashboardMetrics{
		FetchDuration: c.RegisterHistogram("dataset_fetch_duration_seconds",
			"Duration of dataset fetches from the configured source", fetchBuckets, "source"),
		FetchTotal: c.RegisterCounter("dataset_fetch_total",
			"Dataset fetch attempts by outcome", "source", "result"),
		SlowFetchTotal: c.RegisterCounter("dataset_slow_fetch_total",
			"Fetches that exceeded the slow fetch threshold", "source"),
		DatasetRecords: c.RegisterGauge("dataset_records",
			"Records in the installed snapshot"),
		DatasetVersion: c.RegisterGauge("dataset_version",
			"Version of the installed snapshot"),
		PipelineDuration: c.RegisterHistogram("pipeline_duration_seconds",
			"Duration of query and aggregation pipelines", pipelineBuckets, "view"),
		ExportsTotal: c.RegisterCounter("exports_total",
			"Workbook exports by outcome", "result"),
		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"HTTP requests by route and status", "method", "route", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency", httpBuckets, "method", "route"),
		HTTPInFlight: c.RegisterGauge("http_requests_in_flight",
			"HTTP requests currently being served"),
	}
}

// ObserveFetch records one fetch attempt.
func (m *DashboardMetrics) ObserveFetch(source string, d time.Duration, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
	m.FetchTotal.WithLabelValues(source, result).Inc()
}

func (m *DashboardMetrics) IncSlowFetch(source string) {
	m.SlowFetchTotal.WithLabelValues(source).Inc()
}

// SetDataset publishes the installed snapshot's version and size.
func (m *DashboardMetrics) SetDataset(version uint64, records int) {
	m.DatasetVersion.WithLabelValues().Set(float64(version))
	m.DatasetRecords.WithLabelValues().Set(float64(records))
}

func (m *DashboardMetrics) ObservePipeline(view string, d time.Duration) {
	m.PipelineDuration.WithLabelValues(view).Observe(d.Seconds())
}

func (m *DashboardMetrics) IncExport(result string) {
	m.ExportsTotal.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.  route is the matched pattern, not
// the raw path.
func (m *DashboardMetrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *DashboardMetrics) TrackInFlight() func() {
	g := m.HTTPInFlight.WithLabelValues()
	g.Inc()
	return g.Dec
}

//Personal.AI order the ending
