package testutil

import (
	"time"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// SampleJSON is a small upstream payload in the shape the dashboard API
// serves, including blank scores and an undated row.
const SampleJSON = `[
  {"_id":"r1","title":"Oil demand rises in Asia","sector":"Energy","topic":"oil","region":"Asia","country":"India","pest":"Economic","source":"EIA","published":"January, 09 2017 00:00:00","intensity":6,"likelihood":3,"relevance":2,"end_year":""},
  {"_id":"r2","title":"Retail slowdown","sector":"Retail","topic":"consumption","region":"Europe","country":"France","pest":"Economic","source":"WSJ","published":"March, 02 2016 00:00:00","intensity":2,"likelihood":1,"relevance":1,"end_year":2030},
  {"_id":"r3","title":"Gas exports expand","sector":"Energy","topic":"gas","region":"Europe","country":"Norway","pest":"Industries","source":"EIA","published":"June, 30 2017 00:00:00","intensity":4,"likelihood":2,"relevance":3,"end_year":""},
  {"_id":"r4","title":"Unlabelled market note","sector":"","topic":"oil","region":"Asia","country":"","pest":"","source":"","published":"May, 01 2018 00:00:00","intensity":"","likelihood":"","relevance":"","end_year":""}
]`

// SampleRecords returns the decoded SampleJSON.
func SampleRecords() []record.Record {
	recs, err := record.DecodeBytes([]byte(SampleJSON))
	if err != nil {
		panic(err)
	}
	return recs
}

// NewRecord builds a dated record with the three scores set.
func NewRecord(id, sector, region string, published time.Time, intensity, likelihood, relevance float64) record.Record {
	return record.Record{
		ID:         id,
		Title:      id + " title",
		Sector:     sector,
		Region:     region,
		Published:  record.DateOf(published),
		Intensity:  record.Num(intensity),
		Likelihood: record.Num(likelihood),
		Relevance:  record.Num(relevance),
	}
}

//Personal.AI order the ending
