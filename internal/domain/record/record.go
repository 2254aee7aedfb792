// Package record defines the analytical Record, its optional scalar types and
// the explicit field and facet tables the query engine is driven by.
package record

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// PublishedLayout is the date format used by the upstream dataset,
// e.g. "January, 09 2017 00:00:00".
const PublishedLayout = "January, 02 2006 15:04:05"

var dateLayouts = []string{
	PublishedLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ─────────────────────────────────────────────────────────────────────────────
// Number
// ─────────────────────────────────────────────────────────────────────────────

// Number is an optional numeric score.  The zero value is absent.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a present Number.
func Num(v float64) Number { return Number{Value: v, Valid: true} }

// Float returns the value, or 0 when absent.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Truthy reports whether the number is present and non-zero.
func (n Number) Truthy() bool { return n.Valid && n.Value != 0 }

// String returns the shortest decimal form, or "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// UnmarshalJSON accepts numbers and numeric strings.  "", null, NaN,
// infinities and anything non-numeric decode as absent.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}
	if text == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*n = Num(v)
	}
	return nil
}

// MarshalJSON writes absent numbers as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.String()), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Date
// ─────────────────────────────────────────────────────────────────────────────

// Date is an optional timestamp that keeps its source text.  Valid is false
// when the text did not parse; Raw is still kept and re-encoded as is.
type Date struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// DateOf returns a present Date rendered in PublishedLayout.
func DateOf(t time.Time) Date {
	return Date{Time: t, Raw: t.Format(PublishedLayout), Valid: true}
}

// ParseDate parses s under every known layout.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t, Raw: s, Valid: true}
		}
	}
	return Date{Raw: s}
}

// Year returns the calendar year and whether the date is present.
func (d Date) Year() (int, bool) {
	if !d.Valid {
		return 0, false
	}
	return d.Time.Year(), true
}

// UnmarshalJSON accepts a date string; null and non-strings decode as absent.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*d = ParseDate(s)
	return nil
}

// MarshalJSON writes the source text, or null when there is none.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.Raw)
}

// ─────────────────────────────────────────────────────────────────────────────
// Record
// ─────────────────────────────────────────────────────────────────────────────

// Record is one analytical observation.  Every field is optional; an empty
// string means the text field is absent.  Records are never mutated after
// decoding.
type Record struct {
	ID         string `json:"_id,omitempty"`
	Published  Date   `json:"published"`
	Added      Date   `json:"added"`
	Title      string `json:"title"`
	Insight    string `json:"insight"`
	URL        string `json:"url"`
	Topic      string `json:"topic"`
	Sector     string `json:"sector"`
	Region     string `json:"region"`
	Country    string `json:"country"`
	City       string `json:"city"`
	Pest       string `json:"pest"`
	Source     string `json:"source"`
	SWOT       string `json:"swot"`
	Impact     string `json:"impact"`
	Intensity  Number `json:"intensity"`
	Likelihood Number `json:"likelihood"`
	Relevance  Number `json:"relevance"`
	StartYear  Number `json:"start_year"`
	EndYear    Number `json:"end_year"`
}

// looseString decodes any JSON scalar as text so that a stray number in a
// text column does not reject the whole payload.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case data[0] == '{' || data[0] == '[':
		*s = ""
	default:
		*s = looseString(data)
	}
	return nil
}

type recordJSON struct {
	ID         looseString `json:"_id"`
	Published  Date        `json:"published"`
	Added      Date        `json:"added"`
	Title      looseString `json:"title"`
	Insight    looseString `json:"insight"`
	URL        looseString `json:"url"`
	Topic      looseString `json:"topic"`
	Sector     looseString `json:"sector"`
	Region     looseString `json:"region"`
	Country    looseString `json:"country"`
	City       looseString `json:"city"`
	Pest       looseString `json:"pest"`
	Pestle     looseString `json:"pestle"`
	Source     looseString `json:"source"`
	SWOT       looseString `json:"swot"`
	Impact     looseString `json:"impact"`
	Intensity  Number      `json:"intensity"`
	Likelihood Number      `json:"likelihood"`
	Relevance  Number      `json:"relevance"`
	StartYear  Number      `json:"start_year"`
	EndYear    Number      `json:"end_year"`
}

// UnmarshalJSON decodes a record leniently.  The PEST dimension is read from
// "pest", falling back to "pestle".
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pest := raw.Pest
	if pest == "" {
		pest = raw.Pestle
	}
	*r = Record{
		ID:         string(raw.ID),
		Published:  raw.Published,
		Added:      raw.Added,
		Title:      string(raw.Title),
		Insight:    string(raw.Insight),
		URL:        string(raw.URL),
		Topic:      string(raw.Topic),
		Sector:     string(raw.Sector),
		Region:     string(raw.Region),
		Country:    string(raw.Country),
		City:       string(raw.City),
		Pest:       string(pest),
		Source:     string(raw.Source),
		SWOT:       string(raw.SWOT),
		Impact:     string(raw.Impact),
		Intensity:  raw.Intensity,
		Likelihood: raw.Likelihood,
		Relevance:  raw.Relevance,
		StartYear:  raw.StartYear,
		EndYear:    raw.EndYear,
	}
	return nil
}

//Personal.AI order the ending
