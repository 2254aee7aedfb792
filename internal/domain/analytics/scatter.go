package analytics

import "github.com/turtacn/InsightBoard/internal/domain/record"

// ScatterPoint projects one record into intensity/likelihood/relevance space.
type ScatterPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Text    string  `json:"text"`
	Sector  string  `json:"sector"`
	Country string  `json:"country"`
}

// Scatter keeps the records whose three scores are all present and non-zero
// and projects them as points.  Text is the title cut to
// record.TitleDisplayLimit characters followed by "...".
func Scatter(records []record.Record) []ScatterPoint {
	points := []ScatterPoint{}
	for i := range records {
		r := &records[i]
		if !r.Intensity.Truthy() || !r.Likelihood.Truthy() || !r.Relevance.Truthy() {
			continue
		}
		points = append(points, ScatterPoint{
			X:       r.Intensity.Value,
			Y:       r.Likelihood.Value,
			Z:       r.Relevance.Value,
			Text:    record.Truncate(r.Title, record.TitleDisplayLimit) + "...",
			Sector:  r.Sector,
			Country: r.Country,
		})
	}
	return points
}

//Personal.AI order the ending
