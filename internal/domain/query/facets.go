package query

import (
	"slices"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// FacetOptions lists the distinct, sorted, non-empty values of every facet in
// records.  Every facet has an entry, possibly empty.
func FacetOptions(records []record.Record) map[record.FacetKey][]string {
	seen := make(map[record.FacetKey]map[string]struct{}, len(record.Facets))
	for _, key := range record.Facets {
		seen[key] = make(map[string]struct{})
	}

	for i := range records {
		r := &records[i]
		for _, key := range record.Facets {
			if v, ok := key.Value(r); ok && v != "" {
				seen[key][v] = struct{}{}
			}
		}
	}

	options := make(map[record.FacetKey][]string, len(record.Facets))
	for key, values := range seen {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		slices.Sort(list)
		options[key] = list
	}
	return options
}

// StaleSelections returns the active facets of state whose selected value is
// not among options, in enumeration order.  options must be sorted as
// FacetOptions returns them.  A stale selection still filters;
// it simply matches nothing in the current dataset.
func StaleSelections(state record.FilterState, options map[record.FacetKey][]string) []record.FacetKey {
	stale := []record.FacetKey{}
	for _, key := range state.Active() {
		selected := state.Get(key)
		if key == record.FacetEndYear {
			if n, ok := record.ParseLeadingInt(selected); ok && containsYear(options[key], n) {
				continue
			}
			stale = append(stale, key)
			continue
		}
		if _, found := slices.BinarySearch(options[key], selected); !found {
			stale = append(stale, key)
		}
	}
	return stale
}

func containsYear(years []string, year int) bool {
	for _, y := range years {
		if n, ok := record.ParseLeadingInt(y); ok && n == year {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
