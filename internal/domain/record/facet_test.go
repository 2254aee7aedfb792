package record_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

func TestFacets_FixedEnumeration(t *testing.T) {
	t.Parallel()

	want := []record.FacetKey{"endYear", "topic", "sector", "region", "pest", "source", "swot", "country", "city"}
	assert.Equal(t, want, record.Facets[:])

	for _, k := range record.Facets {
		parsed, err := record.ParseFacetKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.NotEmpty(t, k.Label())
	}

	_, err := record.ParseFacetKey("end_year")
	assert.Error(t, err)
	assert.Equal(t, "PEST", record.FacetPest.Label())
	assert.Equal(t, "End Year", record.FacetEndYear.Label())
}

func TestFacet_EndYearDerivesFromPublished(t *testing.T) {
	t.Parallel()

	r := &record.Record{
		Published: record.DateOf(time.Date(2017, 1, 9, 0, 0, 0, 0, time.UTC)),
		EndYear:   record.Num(2040),
	}

	v, ok := record.FacetEndYear.Value(r)
	require.True(t, ok)
	assert.Equal(t, "2017", v)

	assert.True(t, record.FacetEndYear.Match(r, "2017"))
	assert.True(t, record.FacetEndYear.Match(r, " 2017abc"))
	assert.False(t, record.FacetEndYear.Match(r, "2040"))
	assert.False(t, record.FacetEndYear.Match(r, "abc"))

	undated := &record.Record{}
	_, ok = record.FacetEndYear.Value(undated)
	assert.False(t, ok)
	assert.False(t, record.FacetEndYear.Match(undated, "2017"))
}

func TestFacet_TextMatchIsStrictEquality(t *testing.T) {
	t.Parallel()

	r := &record.Record{Sector: "Energy"}
	assert.True(t, record.FacetSector.Match(r, "Energy"))
	assert.False(t, record.FacetSector.Match(r, "energy"))
	assert.True(t, record.FacetSector.Match(r, ""))
	assert.False(t, record.FacetRegion.Match(r, "Asia"))

	_, ok := record.FacetRegion.Value(r)
	assert.False(t, ok)
}

func TestParseLeadingInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2017", 2017, true},
		{"  2017", 2017, true},
		{"2017.9", 2017, true},
		{"-12x", -12, true},
		{"+7", 7, true},
		{"", 0, false},
		{"x2017", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, ok := record.ParseLeadingInt(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFilterState_Lifecycle(t *testing.T) {
	t.Parallel()

	var s record.FilterState
	assert.Zero(t, s.ActiveCount())
	assert.Empty(t, s.Active())

	assert.True(t, s.Set(record.FacetSector, "Energy"))
	assert.True(t, s.Set(record.FacetEndYear, "2017"))
	assert.False(t, s.Set(record.FacetKey("impact"), "x"))

	assert.Equal(t, 2, s.ActiveCount())
	assert.Equal(t, []record.FacetKey{record.FacetEndYear, record.FacetSector}, s.Active())
	assert.Equal(t, "Energy", s.Get(record.FacetSector))
	assert.Equal(t, "", s.Get(record.FacetKey("impact")))

	assert.True(t, s.Set(record.FacetSector, ""))
	assert.Equal(t, 1, s.ActiveCount())

	s.Clear()
	assert.Equal(t, record.FilterState{}, s)
}

func TestFilterState_JSON(t *testing.T) {
	t.Parallel()

	var s record.FilterState
	s.Set(record.FacetRegion, "Asia")

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"region":"Asia"}`, string(out))
	assert.Equal(t, map[record.FacetKey]string{record.FacetRegion: "Asia"}, s.Map())
}

//Personal.AI order the ending
