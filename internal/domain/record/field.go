package record

import (
	"fmt"
	"time"
)

// Kind is the comparison type of a field, resolved once from the field table.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Field names a Record field by its JSON key.
type Field string

const (
	FieldID         Field = "_id"
	FieldPublished  Field = "published"
	FieldAdded      Field = "added"
	FieldTitle      Field = "title"
	FieldInsight    Field = "insight"
	FieldURL        Field = "url"
	FieldTopic      Field = "topic"
	FieldSector     Field = "sector"
	FieldRegion     Field = "region"
	FieldCountry    Field = "country"
	FieldCity       Field = "city"
	FieldPest       Field = "pest"
	FieldSource     Field = "source"
	FieldSWOT       Field = "swot"
	FieldImpact     Field = "impact"
	FieldIntensity  Field = "intensity"
	FieldLikelihood Field = "likelihood"
	FieldRelevance  Field = "relevance"
	FieldStartYear  Field = "start_year"
	FieldEndYear    Field = "end_year"
)

// Value is one field of one record, tagged with the field's kind.
// Text holds the display form for every kind: the string itself, the
// shortest decimal for numbers and the source text for dates.
type Value struct {
	Kind    Kind
	Present bool
	Text    string
	Number  float64
	Time    time.Time
}

func textValue(s string) Value {
	return Value{Kind: KindText, Present: s != "", Text: s}
}

func numberValue(n Number) Value {
	return Value{Kind: KindNumber, Present: n.Valid, Text: n.String(), Number: n.Value}
}

func dateValue(d Date) Value {
	return Value{Kind: KindDate, Present: d.Valid, Text: d.Raw, Time: d.Time}
}

type fieldSpec struct {
	kind Kind
	get  func(*Record) Value
}

// fieldTable is the single source of truth for field kinds and accessors.
var fieldTable = map[Field]fieldSpec{
	FieldID:         {KindText, func(r *Record) Value { return textValue(r.ID) }},
	FieldPublished:  {KindDate, func(r *Record) Value { return dateValue(r.Published) }},
	FieldAdded:      {KindDate, func(r *Record) Value { return dateValue(r.Added) }},
	FieldTitle:      {KindText, func(r *Record) Value { return textValue(r.Title) }},
	FieldInsight:    {KindText, func(r *Record) Value { return textValue(r.Insight) }},
	FieldURL:        {KindText, func(r *Record) Value { return textValue(r.URL) }},
	FieldTopic:      {KindText, func(r *Record) Value { return textValue(r.Topic) }},
	FieldSector:     {KindText, func(r *Record) Value { return textValue(r.Sector) }},
	FieldRegion:     {KindText, func(r *Record) Value { return textValue(r.Region) }},
	FieldCountry:    {KindText, func(r *Record) Value { return textValue(r.Country) }},
	FieldCity:       {KindText, func(r *Record) Value { return textValue(r.City) }},
	FieldPest:       {KindText, func(r *Record) Value { return textValue(r.Pest) }},
	FieldSource:     {KindText, func(r *Record) Value { return textValue(r.Source) }},
	FieldSWOT:       {KindText, func(r *Record) Value { return textValue(r.SWOT) }},
	FieldImpact:     {KindText, func(r *Record) Value { return textValue(r.Impact) }},
	FieldIntensity:  {KindNumber, func(r *Record) Value { return numberValue(r.Intensity) }},
	FieldLikelihood: {KindNumber, func(r *Record) Value { return numberValue(r.Likelihood) }},
	FieldRelevance:  {KindNumber, func(r *Record) Value { return numberValue(r.Relevance) }},
	FieldStartYear:  {KindNumber, func(r *Record) Value { return numberValue(r.StartYear) }},
	FieldEndYear:    {KindNumber, func(r *Record) Value { return numberValue(r.EndYear) }},
}

// AllFields lists every field in declaration order.  Search walks this list.
var AllFields = []Field{
	FieldID, FieldPublished, FieldAdded, FieldTitle, FieldInsight, FieldURL,
	FieldTopic, FieldSector, FieldRegion, FieldCountry, FieldCity, FieldPest,
	FieldSource, FieldSWOT, FieldImpact, FieldIntensity, FieldLikelihood,
	FieldRelevance, FieldStartYear, FieldEndYear,
}

// Columns are the displayed table columns, in display order.  Only these
// fields may be sorted on.
var Columns = []Field{
	FieldPublished, FieldTitle, FieldSector, FieldTopic, FieldRegion,
	FieldCountry, FieldIntensity, FieldLikelihood, FieldRelevance,
}

// Kind returns the field's comparison kind.  Unknown fields are text.
func (f Field) Kind() Kind {
	return fieldTable[f].kind
}

// Get returns the field of r as a tagged Value.
func (f Field) Get(r *Record) Value {
	spec, ok := fieldTable[f]
	if !ok {
		return Value{}
	}
	return spec.get(r)
}

// IsColumn reports whether f is a displayed column.
func (f Field) IsColumn() bool {
	for _, c := range Columns {
		if c == f {
			return true
		}
	}
	return false
}

// ParseColumn validates s as a displayed column name.
func ParseColumn(s string) (Field, error) {
	f := Field(s)
	if !f.IsColumn() {
		return "", fmt.Errorf("record: %q is not a sortable column", s)
	}
	return f, nil
}

//Personal.AI order the ending
