package handlers

import (
	"context"
	"net/http"

	"github.com/turtacn/InsightBoard/internal/application/dashboard"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/query"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// DashboardService is the part of the dashboard application service the
// handlers use.
type DashboardService interface {
	View(ctx context.Context, q query.Query) (*dashboard.View, error)
	Facets(ctx context.Context, filters record.FilterState) (*dashboard.FacetView, error)
	Snapshot() (*dataset.Snapshot, error)
	Refresh(ctx context.Context) (*dataset.Snapshot, error)
	Export(ctx context.Context, q query.Query) (*dashboard.ExportResult, error)
}

// DashboardHandler serves the dataset and its derived views.
type DashboardHandler struct {
	svc             DashboardService
	defaultPageSize int
	logger          logging.Logger
}

// NewDashboardHandler creates a DashboardHandler.  defaultPageSize applies
// when a request omits page_size.
func NewDashboardHandler(svc DashboardService, defaultPageSize int, logger logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DashboardHandler{svc: svc, defaultPageSize: defaultPageSize, logger: logger.Named("http")}
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsServerError(errors.GetCode(err)) {
		h.logger.Error("request failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Err(err))
	}
	writeError(w, err)
}

// view parses the request and runs it.
func (h *DashboardHandler) view(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	q, err := parseQuery(r, h.defaultPageSize)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	v, err := h.svc.View(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return v, true
}

// RawData handles GET /api/data and returns every record of the snapshot.
func (h *DashboardHandler) RawData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecords(snap.Records))
}

// Dashboard handles GET /api/v1/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, toDashboardResponse(v))
	}
}

// Records handles GET /api/v1/records.
func (h *DashboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, toRecordsResponse(v))
	}
}

// Facets handles GET /api/v1/facets.
func (h *DashboardHandler) Facets(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	fv, err := h.svc.Facets(r.Context(), filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FacetsResponse{
		Facets:          toFacets(fv.Options, fv.Filters),
		StaleSelections: toKeys(fv.Stale),
	})
}

// Stats handles GET /api/v1/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, dto.Statistics(v.Views.Statistics))
	}
}

// Sectors handles GET /api/v1/charts/sectors.
func (h *DashboardHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, dto.Distribution(v.Views.Distribution))
	}
}

// Heatmap handles GET /api/v1/charts/heatmap.
func (h *DashboardHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, dto.Heatmap(v.Views.Heatmap))
	}
}

// Scatter handles GET /api/v1/charts/scatter.
func (h *DashboardHandler) Scatter(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, toScatter(v.Views.Scatter))
	}
}

// Years handles GET /api/v1/charts/years.
func (h *DashboardHandler) Years(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, dto.YearSeries(v.Views.YearSeries))
	}
}

// Dataset handles GET /api/v1/dataset.
func (h *DashboardHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDatasetInfo(snap))
}

// Refresh handles POST /api/v1/dataset/refresh.  A failed fetch leaves the
// previous snapshot serving and answers 503.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDatasetInfo(snap))
}

// Export handles POST /api/v1/exports.  The query parameters select the rows
// exactly as for /api/v1/records; pagination is ignored.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.defaultPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.Export(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ExportResponse{
		ObjectKey: res.ObjectKey,
		URL:       res.URL,
		Rows:      res.Rows,
		ExpiresAt: res.ExpiresAt,
	})
}

//Personal.AI order the ending
