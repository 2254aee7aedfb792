package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/application/dashboard"
	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/testutil"
	"github.com/turtacn/InsightBoard/pkg/errors"
	"github.com/turtacn/InsightBoard/pkg/types/common"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

type staticSource struct {
	records []record.Record
	err     error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Fetch(context.Context) ([]record.Record, error) {
	return s.records, s.err
}

type memRenderer struct{}

func (memRenderer) Render(rows []record.Record, _ analytics.Statistics, _ analytics.Distribution) ([]byte, error) {
	return []byte("workbook"), nil
}
func (memRenderer) ContentType() string { return "application/test" }
func (memRenderer) Extension() string   { return "xlsx" }

type memSink struct {
	objects map[string][]byte
}

func (s *memSink) PutObject(_ context.Context, key string, data []byte, _ string) error {
	s.objects[key] = data
	return nil
}

func (s *memSink) PresignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://exports.example/" + key, nil
}

func newService(t *testing.T, src *staticSource, load bool, opts ...dashboard.Option) *dashboard.Service {
	t.Helper()
	svc := dashboard.NewService(src, dataset.NewStore(), dashboard.Config{PageSizes: []int{10, 25, 50}}, nil, opts...)
	if load {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}
	return svc
}

func newLoadedHandler(t *testing.T) *DashboardHandler {
	t.Helper()
	svc := newService(t, &staticSource{records: testutil.SampleRecords()}, true)
	return NewDashboardHandler(svc, 10, nil)
}

func serve(h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func rowIDs(rows []dto.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Records and dashboard
// ─────────────────────────────────────────────────────────────────────────────

func TestRecords_DefaultQuery(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Records, http.MethodGet, "/api/v1/records")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.RecordsResponse](t, w)
	assert.Equal(t, []string{"r4", "r3", "r1", "r2"}, rowIDs(resp.Rows))
	assert.Equal(t, 4, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
	assert.Equal(t, 10, resp.Pagination.PageSize)
	assert.Equal(t, dto.Sort{Field: "published", Order: "desc"}, resp.Sort)
	assert.Empty(t, resp.StaleSelections)
}

func TestRecords_FilterSearchSort(t *testing.T) {
	t.Parallel()
	h := newLoadedHandler(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"facet filter", "/api/v1/records?sector=Energy", []string{"r3", "r1"}},
		{"search", "/api/v1/records?q=GAS", []string{"r3"}},
		{"sort by intensity asc", "/api/v1/records?sort=intensity&order=asc", []string{"r4", "r2", "r3", "r1"}},
		{"filter and search", "/api/v1/records?region=Asia&q=oil", []string{"r4", "r1"}},
		{"second page", "/api/v1/records?page=1&page_size=10", []string{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := serve(h.Records, http.MethodGet, tc.target)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[dto.RecordsResponse](t, w)
			assert.Equal(t, tc.want, rowIDs(resp.Rows))
		})
	}
}

func TestRecords_InvalidParameters(t *testing.T) {
	t.Parallel()
	h := newLoadedHandler(t)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown sort field", "/api/v1/records?sort=insight"},
		{"bad order", "/api/v1/records?order=up"},
		{"negative page", "/api/v1/records?page=-1"},
		{"non-numeric page", "/api/v1/records?page=two"},
		{"zero page size", "/api/v1/records?page_size=0"},
		{"page size not allowed", "/api/v1/records?page_size=7"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := serve(h.Records, http.MethodGet, tc.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[common.ErrorDetail](t, w)
			assert.Equal(t, string(errors.ErrCodeValidation), resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRecords_StaleSelectionIsKept(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Records, http.MethodGet, "/api/v1/records?sector=Mining")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.RecordsResponse](t, w)
	assert.Empty(t, resp.Rows)
	assert.Equal(t, []string{"sector"}, resp.StaleSelections)
	assert.Equal(t, map[string]string{"sector": "Mining"}, resp.Filters)
	assert.Equal(t, 1, resp.ActiveFilters)
}

func TestRecords_NotLoaded(t *testing.T) {
	svc := newService(t, &staticSource{}, false)
	h := NewDashboardHandler(svc, 10, nil)

	w := serve(h.Records, http.MethodGet, "/api/v1/records")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(errors.ErrCodeDataUnavailable), decode[common.ErrorDetail](t, w).Code)
}

func TestDashboard_AllViews(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Dashboard, http.MethodGet, "/api/v1/dashboard?sector=Energy")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.DashboardResponse](t, w)
	assert.Equal(t, []string{"r3", "r1"}, rowIDs(resp.Rows))
	assert.Equal(t, 2, resp.Statistics.TotalRecords)
	assert.Equal(t, 5.0, resp.Statistics.AvgIntensity)
	assert.Equal(t, []string{"Energy"}, resp.SectorDistribution.Labels)
	assert.Equal(t, []int{2}, resp.SectorDistribution.Values)
	assert.Len(t, resp.Scatter, 2)
	assert.Equal(t, []int{2017, 2017}, resp.YearSeries.Years)
	assert.Len(t, resp.Facets, len(record.Facets))
	assert.Equal(t, "endYear", resp.Facets[0].Key)
	assert.Equal(t, "Energy", resp.Facets[2].Selected)
	assert.Equal(t, uint64(1), resp.Dataset.Version)
	assert.Equal(t, 4, resp.Dataset.RecordCount)
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregates
// ─────────────────────────────────────────────────────────────────────────────

func TestStats(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Stats, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, dto.Statistics{TotalRecords: 4, AvgIntensity: 3, AvgLikelihood: 1.5, AvgRelevance: 1.5},
		decode[dto.Statistics](t, w))
}

func TestStats_IgnoresSearch(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Stats, http.MethodGet, "/api/v1/stats?q=gas")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[dto.Statistics](t, w).TotalRecords)
}

func TestCharts(t *testing.T) {
	h := newLoadedHandler(t)

	w := serve(h.Sectors, http.MethodGet, "/api/v1/charts/sectors")
	require.Equal(t, http.StatusOK, w.Code)
	dist := decode[dto.Distribution](t, w)
	assert.Equal(t, []string{"Energy", "Retail"}, dist.Labels)
	assert.Equal(t, []int{2, 1}, dist.Values)

	w = serve(h.Heatmap, http.MethodGet, "/api/v1/charts/heatmap")
	require.Equal(t, http.StatusOK, w.Code)
	hm := decode[dto.Heatmap](t, w)
	assert.Equal(t, []string{"Energy", "Retail"}, hm.Sectors)
	assert.Equal(t, []string{"Asia", "Europe"}, hm.Regions)

	w = serve(h.Scatter, http.MethodGet, "/api/v1/charts/scatter")
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]dto.ScatterPoint](t, w)
	require.Len(t, points, 3)
	assert.Equal(t, "Oil demand rises in Asia...", points[0].Text)

	w = serve(h.Years, http.MethodGet, "/api/v1/charts/years")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.YearSeries](t, w).Years, 4)
}

func TestFacets(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Facets, http.MethodGet, "/api/v1/facets?country=Atlantis")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.FacetsResponse](t, w)
	require.Len(t, resp.Facets, len(record.Facets))
	var sector dto.Facet
	for _, f := range resp.Facets {
		if f.Key == "sector" {
			sector = f
		}
	}
	assert.Equal(t, []string{"Energy", "Retail"}, sector.Options)
	assert.Equal(t, []string{"country"}, resp.StaleSelections)
}

func TestRawData(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.RawData, http.MethodGet, "/api/data")
	require.Equal(t, http.StatusOK, w.Code)

	rows := decode[[]dto.Record](t, w)
	require.Len(t, rows, 4)
	assert.Equal(t, "r1", rows[0].ID)
	require.NotNil(t, rows[0].Intensity)
	assert.Equal(t, 6.0, *rows[0].Intensity)
	assert.Nil(t, rows[3].Intensity)
}

// ─────────────────────────────────────────────────────────────────────────────
// Dataset lifecycle
// ─────────────────────────────────────────────────────────────────────────────

func TestDatasetAndRefresh(t *testing.T) {
	src := &staticSource{records: testutil.SampleRecords()}
	h := NewDashboardHandler(newService(t, src, true), 10, nil)

	w := serve(h.Dataset, http.MethodGet, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[dto.DatasetInfo](t, w)
	assert.Equal(t, uint64(1), info.Version)
	assert.Equal(t, "static", info.Source)

	src.records = src.records[:2]
	w = serve(h.Refresh, http.MethodPost, "/api/v1/dataset/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	info = decode[dto.DatasetInfo](t, w)
	assert.Equal(t, uint64(2), info.Version)
	assert.Equal(t, 2, info.RecordCount)
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	src := &staticSource{records: testutil.SampleRecords()}
	log := testutil.NewMockLogger()
	h := NewDashboardHandler(newService(t, src, true), 10, log)

	src.err = stderrors.New("upstream down")
	w := serve(h.Refresh, http.MethodPost, "/api/v1/dataset/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(errors.ErrCodeDataUnavailable), decode[common.ErrorDetail](t, w).Code)
	assert.True(t, log.HasMessage("error", "request failed"))

	w = serve(h.Dataset, http.MethodGet, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(1), decode[dto.DatasetInfo](t, w).Version)
}

// ─────────────────────────────────────────────────────────────────────────────
// Export
// ─────────────────────────────────────────────────────────────────────────────

func TestExport(t *testing.T) {
	sink := &memSink{objects: map[string][]byte{}}
	svc := newService(t, &staticSource{records: testutil.SampleRecords()}, true,
		dashboard.WithExporter(memRenderer{}, sink))
	h := NewDashboardHandler(svc, 10, nil)

	w := serve(h.Export, http.MethodPost, "/api/v1/exports?sector=Energy")
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[dto.ExportResponse](t, w)
	assert.Equal(t, 2, resp.Rows)
	assert.Regexp(t, `^exports/\d{4}/\d{2}/[0-9a-f-]{36}\.xlsx$`, resp.ObjectKey)
	assert.Equal(t, "https://exports.example/"+resp.ObjectKey, resp.URL)
	assert.Contains(t, sink.objects, resp.ObjectKey)
}

func TestExport_NotConfigured(t *testing.T) {
	h := newLoadedHandler(t)
	w := serve(h.Export, http.MethodPost, "/api/v1/exports")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, string(errors.ErrCodeFeatureDisabled), decode[common.ErrorDetail](t, w).Code)
}

func TestWriteError_UnknownErrorIsMasked(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, stderrors.New("secret connection string"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[common.ErrorDetail](t, w)
	assert.Equal(t, string(errors.ErrCodeInternal), resp.Code)
	assert.NotContains(t, resp.Message, "secret")
}

func TestWriteJSON_UnencodableBodyIsInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"mean": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, string(errors.ErrCodeInternal), decode[common.ErrorDetail](t, w).Code)
}

func TestWriteError_IncludesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.InvalidParam("bad filter").WithDetail("key=colour"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad filter: key=colour", decode[common.ErrorDetail](t, w).Message)
}

//Personal.AI order the ending
