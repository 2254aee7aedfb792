package analytics

import "github.com/turtacn/InsightBoard/internal/domain/record"

// Distribution is a count per group in first-seen order.  Labels and Values
// are parallel.
type Distribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Total returns the sum of all group counts.
func (d Distribution) Total() int {
	total := 0
	for _, v := range d.Values {
		total += v
	}
	return total
}

// SectorDistribution counts records per sector.  Records without a sector
// belong to no group.
func SectorDistribution(records []record.Record) Distribution {
	return groupCount(records, func(r *record.Record) string { return r.Sector })
}

func groupCount(records []record.Record, key func(*record.Record) string) Distribution {
	d := Distribution{Labels: []string{}, Values: []int{}}
	index := make(map[string]int)
	for i := range records {
		k := key(&records[i])
		if k == "" {
			continue
		}
		pos, seen := index[k]
		if !seen {
			pos = len(d.Labels)
			index[k] = pos
			d.Labels = append(d.Labels, k)
			d.Values = append(d.Values, 0)
		}
		d.Values[pos]++
	}
	return d
}

//Personal.AI order the ending
