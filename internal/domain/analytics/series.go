package analytics

import "github.com/turtacn/InsightBoard/internal/domain/record"

// YearSeries holds parallel per-record arrays keyed by publication year, in
// input order.  Records without a valid published date are skipped.
type YearSeries struct {
	Years       []int     `json:"years"`
	Intensities []float64 `json:"intensities"`
	Likelihoods []float64 `json:"likelihoods"`
	Relevances  []float64 `json:"relevances"`
}

// BuildYearSeries maps each dated record to its year and scores.  Missing
// scores are 0.
func BuildYearSeries(records []record.Record) YearSeries {
	s := YearSeries{
		Years:       []int{},
		Intensities: []float64{},
		Likelihoods: []float64{},
		Relevances:  []float64{},
	}
	for i := range records {
		r := &records[i]
		year, ok := r.Published.Year()
		if !ok {
			continue
		}
		s.Years = append(s.Years, year)
		s.Intensities = append(s.Intensities, r.Intensity.Float())
		s.Likelihoods = append(s.Likelihoods, r.Likelihood.Float())
		s.Relevances = append(s.Relevances, r.Relevance.Float())
	}
	return s
}

// Views bundles every summary computed over one collection.
type Views struct {
	Statistics   Statistics     `json:"statistics"`
	Distribution Distribution   `json:"sectorDistribution"`
	Heatmap      Heatmap        `json:"heatmap"`
	Scatter      []ScatterPoint `json:"scatter"`
	YearSeries   YearSeries     `json:"yearSeries"`
}

// Compute runs every aggregation over records.
func Compute(records []record.Record) Views {
	return Views{
		Statistics:   ComputeStatistics(records),
		Distribution: SectorDistribution(records),
		Heatmap:      SectorRegionHeatmap(records),
		Scatter:      Scatter(records),
		YearSeries:   BuildYearSeries(records),
	}
}

//Personal.AI order the ending
