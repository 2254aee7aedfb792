package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc" and "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("query: sort direction %q is invalid; expected asc|desc", s)
}

// SortSpec orders rows by one displayed column.
type SortSpec struct {
	Field     record.Field `json:"field"`
	Direction Direction    `json:"direction"`
}

// DefaultSort is newest first.
var DefaultSort = SortSpec{Field: record.FieldPublished, Direction: Descending}

// Sort returns a new slice ordered by spec.  The comparator is selected once
// from the field's kind: dates by instant, text case-insensitively, numbers
// numerically.  Absent values order before present ones ascending.  The sort
// is stable, so equal keys keep their input order.
func Sort(records []record.Record, spec SortSpec) []record.Record {
	out := slices.Clone(records)
	if len(out) < 2 {
		return out
	}

	compare := comparatorFor(spec.Field)
	if spec.Direction == Descending {
		asc := compare
		compare = func(a, b *record.Record) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, func(a, b record.Record) int { return compare(&a, &b) })
	return out
}

func comparatorFor(f record.Field) func(a, b *record.Record) int {
	switch f.Kind() {
	case record.KindDate:
		return func(a, b *record.Record) int {
			va, vb := f.Get(a), f.Get(b)
			if c, done := comparePresence(va.Present, vb.Present); done {
				return c
			}
			return va.Time.Compare(vb.Time)
		}
	case record.KindNumber:
		return func(a, b *record.Record) int {
			va, vb := f.Get(a), f.Get(b)
			if c, done := comparePresence(va.Present, vb.Present); done {
				return c
			}
			return cmp.Compare(va.Number, vb.Number)
		}
	default:
		return func(a, b *record.Record) int {
			va, vb := f.Get(a), f.Get(b)
			if c, done := comparePresence(va.Present, vb.Present); done {
				return c
			}
			return strings.Compare(strings.ToLower(va.Text), strings.ToLower(vb.Text))
		}
	}
}

// comparePresence orders absent before present.  done is false when both are
// present and the values themselves must be compared.
func comparePresence(a, b bool) (int, bool) {
	switch {
	case a && b:
		return 0, false
	case !a && !b:
		return 0, true
	case !a:
		return -1, true
	default:
		return 1, true
	}
}

//Personal.AI order the ending
