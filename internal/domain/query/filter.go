// Package query implements the in-memory query engine: facet filtering,
// free-text search, type-aware sorting, pagination and the pipeline that
// chains them into derived views.  Every function is pure; inputs are never
// mutated.
package query

import "github.com/turtacn/InsightBoard/internal/domain/record"

// Filter keeps the records that satisfy every active facet in state.  With no
// active facets it returns records unchanged.  A record missing the field of
// an active facet never matches it.
func Filter(records []record.Record, state record.FilterState) []record.Record {
	active := state.Active()
	if len(active) == 0 {
		return records
	}

	out := make([]record.Record, 0, len(records))
	for i := range records {
		if matchesAll(&records[i], state, active) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchesAll(r *record.Record, state record.FilterState, active []record.FacetKey) bool {
	for _, key := range active {
		if !key.Match(r, state.Get(key)) {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
