package analytics

import "github.com/turtacn/InsightBoard/internal/domain/record"

// Heatmap is a dense sector×region matrix of mean intensity.
// Values[i][j] belongs to Sectors[i] and Regions[j].
type Heatmap struct {
	Sectors []string    `json:"sectors"`
	Regions []string    `json:"regions"`
	Values  [][]float64 `json:"values"`
}

// SectorRegionHeatmap cross-tabulates mean intensity by sector and region.
// Both axes list distinct non-empty values in first-seen order.  A cell with
// no matching records is 0; a missing intensity counts as 0 in the mean.
func SectorRegionHeatmap(records []record.Record) Heatmap {
	sectors := distinctInOrder(records, func(r *record.Record) string { return r.Sector })
	regions := distinctInOrder(records, func(r *record.Record) string { return r.Region })

	sectorIdx := indexOf(sectors)
	regionIdx := indexOf(regions)

	sums := make([][]float64, len(sectors))
	counts := make([][]int, len(sectors))
	for i := range sectors {
		sums[i] = make([]float64, len(regions))
		counts[i] = make([]int, len(regions))
	}

	for i := range records {
		r := &records[i]
		s, okS := sectorIdx[r.Sector]
		g, okG := regionIdx[r.Region]
		if !okS || !okG {
			continue
		}
		sums[s][g] += r.Intensity.Float()
		counts[s][g]++
	}

	values := make([][]float64, len(sectors))
	for i := range sectors {
		values[i] = make([]float64, len(regions))
		for j := range regions {
			if counts[i][j] > 0 {
				values[i][j] = sums[i][j] / float64(counts[i][j])
			}
		}
	}
	return Heatmap{Sectors: sectors, Regions: regions, Values: values}
}

func distinctInOrder(records []record.Record, key func(*record.Record) string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for i := range records {
		k := key(&records[i])
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}

//Personal.AI order the ending
