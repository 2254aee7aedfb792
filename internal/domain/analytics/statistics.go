// Package analytics computes the summary views of a record collection:
// headline statistics, sector distribution, the sector×region intensity
// heatmap, the scatter projection and the per-record year series.  Each
// computation is a pure function of its input slice.
package analytics

import (
	"math"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// Statistics are the headline numbers of a collection.  Averages treat a
// missing score as 0 and are rounded to one decimal place.
type Statistics struct {
	TotalRecords  int     `json:"totalRecords"`
	AvgIntensity  float64 `json:"avgIntensity"`
	AvgLikelihood float64 `json:"avgLikelihood"`
	AvgRelevance  float64 `json:"avgRelevance"`
}

// ComputeStatistics returns the statistics of records.  An empty collection
// yields all zeros.
func ComputeStatistics(records []record.Record) Statistics {
	n := len(records)
	if n == 0 {
		return Statistics{}
	}

	var intensity, likelihood, relevance float64
	for i := range records {
		intensity += records[i].Intensity.Float()
		likelihood += records[i].Likelihood.Float()
		relevance += records[i].Relevance.Float()
	}
	return Statistics{
		TotalRecords:  n,
		AvgIntensity:  round1(intensity / float64(n)),
		AvgLikelihood: round1(likelihood / float64(n)),
		AvgRelevance:  round1(relevance / float64(n)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

//Personal.AI order the ending
