package client

import (
	"context"
	"net/url"
	"strconv"

	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// Query selects rows the way the dashboard controls do.  Zero values leave
// the server defaults in place.
type Query struct {
	// Filters maps facet keys (endYear, topic, sector, ...) to one value.
	Filters  map[string]string
	Search   string
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// Values encodes q as query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// DashboardClient covers the /api/v1 dashboard endpoints.
type DashboardClient struct {
	client *Client
}

// Dashboard returns every view of q in one response.
func (d *DashboardClient) Dashboard(ctx context.Context, q Query) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	if err := d.client.get(ctx, "/api/v1/dashboard", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Records returns one page of matched rows.
func (d *DashboardClient) Records(ctx context.Context, q Query) (*dto.RecordsResponse, error) {
	var out dto.RecordsResponse
	if err := d.client.get(ctx, "/api/v1/records", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Facets returns the options of every facet under the given filters.
func (d *DashboardClient) Facets(ctx context.Context, filters map[string]string) (*dto.FacetsResponse, error) {
	var out dto.FacetsResponse
	if err := d.client.get(ctx, "/api/v1/facets", Query{Filters: filters}.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the headline statistics of the filtered collection.
func (d *DashboardClient) Stats(ctx context.Context, q Query) (*dto.Statistics, error) {
	var out dto.Statistics
	if err := d.client.get(ctx, "/api/v1/stats", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sectors returns the sector distribution.
func (d *DashboardClient) Sectors(ctx context.Context, q Query) (*dto.Distribution, error) {
	var out dto.Distribution
	if err := d.client.get(ctx, "/api/v1/charts/sectors", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Heatmap returns the sector by region intensity matrix.
func (d *DashboardClient) Heatmap(ctx context.Context, q Query) (*dto.Heatmap, error) {
	var out dto.Heatmap
	if err := d.client.get(ctx, "/api/v1/charts/heatmap", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scatter returns the scatter points.
func (d *DashboardClient) Scatter(ctx context.Context, q Query) ([]dto.ScatterPoint, error) {
	var out []dto.ScatterPoint
	if err := d.client.get(ctx, "/api/v1/charts/scatter", q.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Years returns the per-year series.
func (d *DashboardClient) Years(ctx context.Context, q Query) (*dto.YearSeries, error) {
	var out dto.YearSeries
	if err := d.client.get(ctx, "/api/v1/charts/years", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dataset returns the metadata of the serving snapshot.
func (d *DashboardClient) Dataset(ctx context.Context) (*dto.DatasetInfo, error) {
	var out dto.DatasetInfo
	if err := d.client.get(ctx, "/api/v1/dataset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh asks the server to fetch the dataset now.
func (d *DashboardClient) Refresh(ctx context.Context) (*dto.DatasetInfo, error) {
	var out dto.DatasetInfo
	if err := d.client.post(ctx, "/api/v1/dataset/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export writes the matched rows of q to a workbook and returns its
// location.  Pagination fields are ignored by the server.
func (d *DashboardClient) Export(ctx context.Context, q Query) (*dto.ExportResponse, error) {
	var out dto.ExportResponse
	if err := d.client.post(ctx, "/api/v1/exports", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RawData returns the unfiltered collection.
func (d *DashboardClient) RawData(ctx context.Context) ([]dto.Record, error) {
	var out []dto.Record
	if err := d.client.get(ctx, "/api/data", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

//Personal.AI order the ending
