package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/client"
	"github.com/turtacn/InsightBoard/pkg/errors"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// queryFlags are the row-selection flags shared by the query commands.
type queryFlags struct {
	filters  []string
	search   string
	sort     string
	order    string
	page     int
	pageSize int
}

// bind registers the flags on cmd.  Paging flags are only bound when the
// command shows a page of rows.
func (f *queryFlags) bind(cmd *cobra.Command, paging bool) {
	fs := cmd.Flags()
	fs.StringArrayVarP(&f.filters, "filter", "f", nil, "facet filter key=value (repeatable), e.g. sector=Energy")
	fs.StringVarP(&f.search, "search", "s", "", "case-insensitive search across all fields")
	if !paging {
		return
	}
	fs.StringVar(&f.sort, "sort", "", "sort column: "+columnNames())
	fs.StringVar(&f.order, "order", "", "sort order: asc|desc")
	fs.IntVar(&f.page, "page", 0, "0-based page index")
	fs.IntVar(&f.pageSize, "page-size", 0, "rows per page (default: server default)")
}

// query validates the flags and builds the API query.
func (f *queryFlags) query() (client.Query, error) {
	filters, err := parseFilters(f.filters)
	if err != nil {
		return client.Query{}, err
	}
	if f.sort != "" {
		if _, err := record.ParseColumn(f.sort); err != nil {
			return client.Query{}, errors.InvalidParam(fmt.Sprintf("--sort %q is not a column; expected %s", f.sort, columnNames()))
		}
	}
	switch f.order {
	case "", "asc", "desc":
	default:
		return client.Query{}, errors.InvalidParam(fmt.Sprintf("--order %q is invalid; expected asc|desc", f.order))
	}
	if f.page < 0 {
		return client.Query{}, errors.InvalidParam("--page must be >= 0")
	}
	if f.pageSize < 0 {
		return client.Query{}, errors.InvalidParam("--page-size must be > 0")
	}
	return client.Query{
		Filters:  filters,
		Search:   f.search,
		Sort:     f.sort,
		Order:    f.order,
		Page:     f.page,
		PageSize: f.pageSize,
	}, nil
}

// parseFilters turns key=value pairs into a facet filter map.  A later
// pair for the same key replaces the earlier one.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.InvalidParam(fmt.Sprintf("--filter %q must be key=value", pair))
		}
		if _, err := record.ParseFacetKey(key); err != nil {
			return nil, errors.InvalidParam(fmt.Sprintf("--filter key %q is not a facet; expected %s", key, facetNames()))
		}
		out[key] = value
	}
	return out, nil
}

func columnNames() string {
	names := make([]string, len(record.Columns))
	for i, c := range record.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}

func facetNames() string {
	names := make([]string, len(record.Facets))
	for i, k := range record.Facets {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

// NewRecordsCmd lists one page of matched rows.
func NewRecordsCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List matched records one page at a time",
		Example: "  insightctl records -f sector=Energy -s oil --sort intensity --order desc\n" +
			"  insightctl records --page 2 --page-size 25 -o json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Dashboard().Records(ctx, q)
			if err != nil {
				return err
			}
			warnStale(cmd, resp.StaleSelections)
			return PrintResult(cmd, recordsTable{resp})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

// warnStale reports selections that match nothing in the current dataset.
func warnStale(cmd *cobra.Command, stale []string) {
	if len(stale) > 0 {
		PrintWarning(cmd, "filters with no matching value in the current dataset: "+strings.Join(stale, ", "))
	}
}

type recordsTable struct {
	*dto.RecordsResponse
}

func (t recordsTable) TableHeaders() []string {
	headers := make([]string, len(record.Columns))
	for i, c := range record.Columns {
		headers[i] = string(c)
	}
	return headers
}

func (t recordsTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, len(record.Columns))
		for i, c := range record.Columns {
			v := r.Column(string(c))
			if c == record.FieldTitle {
				v = record.Abbreviate(v, titleWidth)
			}
			row[i] = orMissing(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func (t recordsTable) TableFooter() []string {
	p := t.Pagination
	lines := []string{fmt.Sprintf("Page %d of %d, %d matched records", p.Page+1, max(p.TotalPages, 1), p.Total)}
	if t.ActiveFilters > 0 {
		keys := make([]string, 0, len(t.Filters))
		for k := range t.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + t.Filters[k]
		}
		lines = append(lines, "Filters: "+strings.Join(parts, ", "))
	}
	return lines
}

//Personal.AI order the ending
