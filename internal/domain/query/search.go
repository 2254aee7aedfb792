package query

import (
	"strings"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// Search keeps the records where any present field's text form contains term,
// ignoring case.  An empty term returns records unchanged.
func Search(records []record.Record, term string) []record.Record {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)

	out := make([]record.Record, 0, len(records))
	for i := range records {
		if recordContains(&records[i], needle) {
			out = append(out, records[i])
		}
	}
	return out
}

func recordContains(r *record.Record, needle string) bool {
	for _, f := range record.AllFields {
		v := f.Get(r)
		if v.Present && strings.Contains(strings.ToLower(v.Text), needle) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
