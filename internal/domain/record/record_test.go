package record_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

const upstreamPayload = `[
  {
    "_id": "52a",
    "end_year": "",
    "intensity": 6,
    "sector": "Energy",
    "topic": "gas",
    "insight": "Annual Energy Outlook",
    "url": "http://www.eia.gov/outlooks/aeo/",
    "region": "Northern America",
    "start_year": "",
    "impact": "",
    "added": "January, 20 2017 03:51:25",
    "published": "January, 09 2017 00:00:00",
    "country": "United States of America",
    "relevance": 2,
    "pest": "Industries",
    "source": "EIA",
    "title": "U.S. natural gas consumption is expected to increase during much of the projection period.",
    "likelihood": 3
  },
  {
    "end_year": 2040,
    "intensity": "",
    "sector": "",
    "pestle": "Economic",
    "published": "",
    "likelihood": "2.5",
    "city": 42
  }
]`

func TestDecode_UpstreamPayload(t *testing.T) {
	t.Parallel()

	recs, err := record.DecodeBytes([]byte(upstreamPayload))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "52a", first.ID)
	assert.Equal(t, "Energy", first.Sector)
	assert.Equal(t, "Industries", first.Pest)
	assert.Equal(t, record.Num(6), first.Intensity)
	assert.Equal(t, record.Num(3), first.Likelihood)
	assert.False(t, first.EndYear.Valid)
	require.True(t, first.Published.Valid)
	assert.Equal(t, time.Date(2017, time.January, 9, 0, 0, 0, 0, time.UTC), first.Published.Time)
	assert.Equal(t, "January, 09 2017 00:00:00", first.Published.Raw)

	second := recs[1]
	assert.Equal(t, record.Num(2040), second.EndYear)
	assert.False(t, second.Intensity.Valid)
	assert.Equal(t, record.Num(2.5), second.Likelihood)
	assert.Equal(t, "Economic", second.Pest)
	assert.Equal(t, "42", second.City)
	assert.False(t, second.Published.Valid)
	assert.Empty(t, second.Sector)
}

func TestDecode_RejectsNonArray(t *testing.T) {
	t.Parallel()

	_, err := record.Decode(strings.NewReader(`{"data": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON array")

	_, err = record.Decode(strings.NewReader(``))
	assert.Error(t, err)

	_, err = record.Decode(strings.NewReader(`[{"sector": "Energy"}, 7]`))
	assert.Error(t, err)
}

func TestDecode_EmptyArray(t *testing.T) {
	t.Parallel()

	recs, err := record.DecodeBytes([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	recs, err := record.DecodeBytes([]byte(upstreamPayload))
	require.NoError(t, err)

	data, err := record.Encode(recs)
	require.NoError(t, err)

	again, err := record.DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, recs, again)

	empty, err := record.Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))
}

func TestNumber_JSON(t *testing.T) {
	t.Parallel()

	cases := map[string]record.Number{
		`6`:           record.Num(6),
		`"4"`:         record.Num(4),
		`""`:          {},
		`null`:        {},
		`"high"`:      {},
		`0`:           record.Num(0),
		`"NaN"`:       {},
		`"Infinity"`:  {},
		`"-Inf"`:      {},
		`"+infinity"`: {},
	}
	for in, want := range cases {
		var n record.Number
		require.NoError(t, json.Unmarshal([]byte(in), &n), in)
		assert.Equal(t, want, n, in)
	}

	out, err := json.Marshal(struct {
		A record.Number `json:"a"`
		B record.Number `json:"b"`
	}{A: record.Num(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(out))
}

func TestDecode_NonFiniteNumbersAreAbsent(t *testing.T) {
	t.Parallel()

	records, err := record.DecodeBytes([]byte(`[
	  {"_id": "a", "intensity": "NaN", "likelihood": "-Inf", "relevance": "Infinity", "start_year": 2016}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Intensity.Valid)
	assert.False(t, records[0].Likelihood.Valid)
	assert.False(t, records[0].Relevance.Valid)
	assert.Equal(t, record.Num(2016), records[0].StartYear)

	out, err := record.Encode(records)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"intensity":null`)
}

func TestNumber_Truthiness(t *testing.T) {
	t.Parallel()

	assert.True(t, record.Num(1).Truthy())
	assert.False(t, record.Num(0).Truthy())
	assert.False(t, record.Number{}.Truthy())
	assert.Equal(t, 0.0, record.Number{}.Float())
	assert.Equal(t, "", record.Number{}.String())
	assert.Equal(t, "3", record.Num(3).String())
}

func TestParseDate_Layouts(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"January, 09 2017 00:00:00",
		"2017-01-09T00:00:00Z",
		"2017-01-09 00:00:00",
		"2017-01-09",
	} {
		d := record.ParseDate(s)
		require.True(t, d.Valid, s)
		y, ok := d.Year()
		assert.True(t, ok)
		assert.Equal(t, 2017, y, s)
	}

	bad := record.ParseDate("someday")
	assert.False(t, bad.Valid)
	assert.Equal(t, "someday", bad.Raw)
	_, ok := bad.Year()
	assert.False(t, ok)

	assert.Equal(t, record.Date{}, record.ParseDate("  "))
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	d := record.DateOf(time.Date(2016, time.March, 2, 10, 0, 0, 0, time.UTC))
	assert.True(t, d.Valid)
	assert.Equal(t, "March, 02 2016 10:00:00", d.Raw)
}

func TestTruncateAndAbbreviate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", record.Truncate("abcdef", 3))
	assert.Equal(t, "abc", record.Truncate("abc", 50))
	assert.Equal(t, "", record.Truncate("abc", 0))
	assert.Equal(t, "çaé", record.Truncate("çaéü", 3))

	long := strings.Repeat("x", 60)
	assert.Equal(t, strings.Repeat("x", 50)+"...", record.Abbreviate(long, record.TitleDisplayLimit))
	assert.Equal(t, "short", record.Abbreviate("short", record.TitleDisplayLimit))
	assert.Equal(t, "日本...", record.Abbreviate("日本語", 2))
}

//Personal.AI order the ending
