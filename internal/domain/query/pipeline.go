package query

import (
	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// Query is the full presentation state applied to a collection.
type Query struct {
	Filters record.FilterState `json:"filters"`
	Search  string             `json:"search,omitempty"`
	Sort    SortSpec           `json:"sort"`
	Page    PageSpec           `json:"page"`
}

// DefaultQuery has no filters, no search, newest first, first page of ten.
func DefaultQuery() Query {
	return Query{Sort: DefaultSort, Page: DefaultPage}
}

// Result is every derived view of one Run.
type Result struct {
	// Filtered is the collection after facet filtering.
	Filtered []record.Record
	// Matched is Filtered after search, in sorted order.
	Matched []record.Record
	// Rows is the requested page of Matched.
	Rows      []record.Record
	TotalRows int
	PageCount int
	// Views are computed over Filtered.
	Views analytics.Views
}

// Run executes Filter → Search → Sort → Paginate and computes the summary
// views.  The whole pipeline re-scans records on every call.
func Run(records []record.Record, q Query) Result {
	filtered := Filter(records, q.Filters)
	matched := Sort(Search(filtered, q.Search), q.Sort)

	return Result{
		Filtered:  filtered,
		Matched:   matched,
		Rows:      Paginate(matched, q.Page.Index, q.Page.Size),
		TotalRows: len(matched),
		PageCount: PageCount(len(matched), q.Page.Size),
		Views:     analytics.Compute(filtered),
	}
}

//Personal.AI order the ending
