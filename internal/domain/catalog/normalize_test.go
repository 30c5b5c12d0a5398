package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usgsHeader = []string{"time", "latitude", "longitude", "depth", "mag", "place", "type", "id"}

func TestNormalize(t *testing.T) {
	t.Run("full USGS-shaped record", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T08:12:34.567Z", "38.32", "142.37", "29.0", "5.1", "67 km E of Namie, Japan", "earthquake", "us7000abcd"},
		}

		table, report, err := Normalize(records)

		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		q := table.Rows[0]
		assert.Equal(t, "us7000abcd", q.ID)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 12, 34, 567000000, time.UTC), q.Time)
		assert.Equal(t, 38.32, *q.Latitude)
		assert.Equal(t, 142.37, *q.Longitude)
		assert.Equal(t, 29.0, *q.Depth)
		assert.Equal(t, 5.1, *q.Magnitude)
		assert.Equal(t, "67 km E of Namie, Japan", q.Place)
		assert.Equal(t, "earthquake", q.Type)
		assert.Equal(t, "Japan", q.Region)
		assert.Equal(t, 1, report.TotalRows)
		assert.Equal(t, 1, report.Kept)
		assert.Zero(t, report.DroppedBadTime)
	})

	t.Run("region column wins over place derivation", func(t *testing.T) {
		records := [][]string{
			{"time", "place", "region", "id"},
			{"2024-01-15T00:00:00Z", "10 km N of Anchorage, Alaska", "Pacific Rim", "ak1"},
		}

		table, _, err := Normalize(records)

		require.NoError(t, err)
		assert.Equal(t, "Pacific Rim", table.Rows[0].Region)
	})

	t.Run("unparseable time drops the row", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"not-a-time", "38.32", "142.37", "29.0", "5.1", "x", "earthquake", "bad1"},
			{"2024-01-15T00:00:00Z", "38.32", "142.37", "29.0", "5.1", "x", "earthquake", "ok1"},
			{"", "38.32", "142.37", "29.0", "5.1", "x", "earthquake", "bad2"},
		}

		table, report, err := Normalize(records)

		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
		assert.Equal(t, "ok1", table.Rows[0].ID)
		assert.Equal(t, 3, report.TotalRows)
		assert.Equal(t, 2, report.DroppedBadTime)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("non-numeric measurements become nil", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T00:00:00Z", "abc", "", "n/a", "-", "x", "earthquake", "q1"},
		}

		table, report, err := Normalize(records)

		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		q := table.Rows[0]
		assert.Nil(t, q.Latitude)
		assert.Nil(t, q.Longitude)
		assert.Nil(t, q.Depth)
		assert.Nil(t, q.Magnitude)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("missing id is synthesized deterministically", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T00:00:00Z", "38.32", "142.37", "29.0", "5.1", "somewhere", "earthquake", ""},
		}

		table1, report1, err := Normalize(records)
		require.NoError(t, err)
		table2, _, err := Normalize(records)
		require.NoError(t, err)

		require.Equal(t, 1, table1.Len())
		id := table1.Rows[0].ID
		assert.NotEmpty(t, id)
		assert.True(t, len(id) > 2 && id[:2] == "q-")
		assert.Equal(t, id, table2.Rows[0].ID)
		assert.Equal(t, 1, report1.SynthesizedIDs)
	})

	t.Run("duplicate ids keep the first row", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T00:00:00Z", "1", "1", "10", "3.0", "first, A", "earthquake", "dup"},
			{"2024-01-16T00:00:00Z", "2", "2", "20", "4.0", "second, B", "earthquake", "dup"},
		}

		table, report, err := Normalize(records)

		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		assert.Equal(t, "A", table.Rows[0].Region)
		assert.Equal(t, 1, report.DroppedDuplicateID)
	})

	t.Run("rows are sorted by time ascending", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-17T00:00:00Z", "", "", "", "", "c", "earthquake", "c"},
			{"2024-01-15T00:00:00Z", "", "", "", "", "a", "earthquake", "a"},
			{"2024-01-16T00:00:00Z", "", "", "", "", "b", "earthquake", "b"},
		}

		table, _, err := Normalize(records)

		require.NoError(t, err)
		require.Equal(t, 3, table.Len())
		assert.Equal(t, "a", table.Rows[0].ID)
		assert.Equal(t, "b", table.Rows[1].ID)
		assert.Equal(t, "c", table.Rows[2].ID)
	})

	t.Run("empty type defaults", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T00:00:00Z", "", "", "", "", "x", "", "q1"},
		}

		table, _, err := Normalize(records)

		require.NoError(t, err)
		assert.Equal(t, "unknown", table.Rows[0].Type)
	})

	t.Run("magnitude header alias", func(t *testing.T) {
		records := [][]string{
			{"time", "magnitude", "id"},
			{"2024-01-15T00:00:00Z", "4.2", "q1"},
		}

		table, _, err := Normalize(records)

		require.NoError(t, err)
		require.True(t, table.Rows[0].HasMagnitude())
		assert.Equal(t, 4.2, *table.Rows[0].Magnitude)
	})

	t.Run("short rows read as empty fields", func(t *testing.T) {
		records := [][]string{
			usgsHeader,
			{"2024-01-15T00:00:00Z", "38.32"},
		}

		table, _, err := Normalize(records)

		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		q := table.Rows[0]
		assert.Equal(t, 38.32, *q.Latitude)
		assert.Nil(t, q.Magnitude)
		assert.Equal(t, UnknownRegion, q.Region)
	})

	t.Run("no records", func(t *testing.T) {
		_, _, err := Normalize(nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})

	t.Run("header without time column", func(t *testing.T) {
		records := [][]string{{"latitude", "longitude", "mag"}}

		_, _, err := Normalize(records)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumn))
	})

	t.Run("header-only input yields a valid empty table", func(t *testing.T) {
		table, report, err := Normalize([][]string{usgsHeader})

		require.NoError(t, err)
		assert.True(t, table.Empty())
		assert.Zero(t, report.TotalRows)
	})

	t.Run("report uses the injected clock", func(t *testing.T) {
		frozen := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(frozen))
		defer SetClock(nil)

		_, report, err := Normalize([][]string{usgsHeader})

		require.NoError(t, err)
		assert.Equal(t, frozen, report.NormalizedAt)
	})
}

func TestRegionFromPlace(t *testing.T) {
	tests := []struct {
		name     string
		place    string
		expected string
	}{
		{"country after comma", "67 km E of Namie, Japan", "Japan"},
		{"state after comma", "10 km N of Anchorage, Alaska", "Alaska"},
		{"multiple commas", "a, b, CA", "CA"},
		{"no comma keeps whole place", "southern mid-Atlantic ridge", "southern mid-Atlantic ridge"},
		{"trailing comma", "Namie, Japan,", UnknownRegion},
		{"empty place", "", UnknownRegion},
		{"whitespace only", "   ", UnknownRegion},
		{"comma with spaces", "near the coast ,  Chile ", "Chile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, regionFromPlace(tt.place))
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc3339 nano", "2024-01-15T08:12:34.567Z", time.Date(2024, 1, 15, 8, 12, 34, 567000000, time.UTC), true},
		{"rfc3339", "2024-01-15T08:12:34Z", time.Date(2024, 1, 15, 8, 12, 34, 0, time.UTC), true},
		{"offset normalized to UTC", "2024-01-15T08:12:34+02:00", time.Date(2024, 1, 15, 6, 12, 34, 0, time.UTC), true},
		{"no zone", "2024-01-15T08:12:34", time.Date(2024, 1, 15, 8, 12, 34, 0, time.UTC), true},
		{"space separator", "2024-01-15 08:12:34", time.Date(2024, 1, 15, 8, 12, 34, 0, time.UTC), true},
		{"date only", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTime(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseFloatPtr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"plain", "5.1", f64(5.1)},
		{"negative", "-1.2", f64(-1.2)},
		{"integer", "29", f64(29)},
		{"padded", " 3.5 ", f64(3.5)},
		{"empty", "", nil},
		{"garbage", "deep", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFloatPtr(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func f64(v float64) *float64 { return &v }
