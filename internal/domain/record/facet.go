package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FacetKey names one filterable dimension.
type FacetKey string

const (
	FacetEndYear FacetKey = "endYear"
	FacetTopic   FacetKey = "topic"
	FacetSector  FacetKey = "sector"
	FacetRegion  FacetKey = "region"
	FacetPest    FacetKey = "pest"
	FacetSource  FacetKey = "source"
	FacetSWOT    FacetKey = "swot"
	FacetCountry FacetKey = "country"
	FacetCity    FacetKey = "city"
)

// Facets is the fixed facet enumeration in filter-panel order.  It is the
// index space of FilterState.
var Facets = [...]FacetKey{
	FacetEndYear, FacetTopic, FacetSector, FacetRegion, FacetPest,
	FacetSource, FacetSWOT, FacetCountry, FacetCity,
}

const facetCount = len(Facets)

type facetSpec struct {
	label string
	// value is the facet value of a record used for option lists; ok is
	// false when the record has none.
	value func(r *Record) (string, bool)
	// match reports whether r satisfies a non-empty selection.
	match func(r *Record, selected string) bool
}

func textFacet(label string, get func(r *Record) string) facetSpec {
	return facetSpec{
		label: label,
		value: func(r *Record) (string, bool) {
			v := get(r)
			return v, v != ""
		},
		match: func(r *Record, selected string) bool {
			return get(r) == selected
		},
	}
}

// facetTable maps each facet to its accessor and transform.  endYear is the
// calendar year of published, not the end_year column.
var facetTable = [facetCount]facetSpec{
	{
		label: "End Year",
		value: func(r *Record) (string, bool) {
			y, ok := r.Published.Year()
			if !ok {
				return "", false
			}
			return strconv.Itoa(y), true
		},
		match: func(r *Record, selected string) bool {
			want, ok := ParseLeadingInt(selected)
			if !ok {
				return false
			}
			y, ok := r.Published.Year()
			return ok && y == want
		},
	},
	textFacet("Topic", func(r *Record) string { return r.Topic }),
	textFacet("Sector", func(r *Record) string { return r.Sector }),
	textFacet("Region", func(r *Record) string { return r.Region }),
	textFacet("PEST", func(r *Record) string { return r.Pest }),
	textFacet("Source", func(r *Record) string { return r.Source }),
	textFacet("SWOT", func(r *Record) string { return r.SWOT }),
	textFacet("Country", func(r *Record) string { return r.Country }),
	textFacet("City", func(r *Record) string { return r.City }),
}

func (k FacetKey) index() int {
	for i, f := range Facets {
		if f == k {
			return i
		}
	}
	return -1
}

// Valid reports whether k belongs to the facet enumeration.
func (k FacetKey) Valid() bool { return k.index() >= 0 }

// Label returns the human-readable facet name.
func (k FacetKey) Label() string {
	if i := k.index(); i >= 0 {
		return facetTable[i].label
	}
	return string(k)
}

// Value returns the facet value of r.
func (k FacetKey) Value(r *Record) (string, bool) {
	i := k.index()
	if i < 0 {
		return "", false
	}
	return facetTable[i].value(r)
}

// Match reports whether r satisfies selected.  An empty selection matches
// everything.
func (k FacetKey) Match(r *Record, selected string) bool {
	if selected == "" {
		return true
	}
	i := k.index()
	if i < 0 {
		return true
	}
	return facetTable[i].match(r, selected)
}

// ParseFacetKey validates s against the facet enumeration.
func ParseFacetKey(s string) (FacetKey, error) {
	k := FacetKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("record: unknown facet %q", s)
	}
	return k, nil
}

// ParseLeadingInt parses an optional sign followed by decimal digits at the
// start of s, ignoring leading spaces and anything after the digits.
func ParseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ─────────────────────────────────────────────────────────────────────────────
// FilterState
// ─────────────────────────────────────────────────────────────────────────────

// FilterState holds at most one selected value per facet.  The zero value
// has no active facets.  FilterState is a comparable value type.
type FilterState struct {
	selected [facetCount]string
}

// Set selects value for key; an empty value unsets the facet.  It returns
// false for keys outside the enumeration.
func (s *FilterState) Set(key FacetKey, value string) bool {
	i := key.index()
	if i < 0 {
		return false
	}
	s.selected[i] = value
	return true
}

// Get returns the selected value for key, or "".
func (s FilterState) Get(key FacetKey) string {
	if i := key.index(); i >= 0 {
		return s.selected[i]
	}
	return ""
}

// Active returns the facets with a selection, in enumeration order.
func (s FilterState) Active() []FacetKey {
	var keys []FacetKey
	for i, v := range s.selected {
		if v != "" {
			keys = append(keys, Facets[i])
		}
	}
	return keys
}

// ActiveCount returns the number of facets with a selection.
func (s FilterState) ActiveCount() int {
	n := 0
	for _, v := range s.selected {
		if v != "" {
			n++
		}
	}
	return n
}

// Clear unsets every facet.
func (s *FilterState) Clear() {
	s.selected = [facetCount]string{}
}

// Map returns the active selections keyed by facet.
func (s FilterState) Map() map[FacetKey]string {
	m := make(map[FacetKey]string, facetCount)
	for i, v := range s.selected {
		if v != "" {
			m[Facets[i]] = v
		}
	}
	return m
}

// MarshalJSON renders the active selections as an object.
func (s FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

//Personal.AI order the ending
