package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quakescope/quakescope/internal/domain/model"
)

// UnknownRegion is the sentinel grouping label for rows whose region cannot
// be derived, so region grouping never fails on a missing key.
const UnknownRegion = "Unknown"

// unknownType labels rows without an event type.
const unknownType = "unknown"

// timeLayouts are tried in order when parsing the time column. The USGS
// feed emits RFC 3339 with fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Report summarizes what normalization did to the raw records.
type Report struct {
	TotalRows          int       `json:"total_rows"`
	Kept               int       `json:"kept"`
	DroppedBadTime     int       `json:"dropped_bad_time"`
	DroppedDuplicateID int       `json:"dropped_duplicate_id"`
	SynthesizedIDs     int       `json:"synthesized_ids"`
	NormalizedAt       time.Time `json:"normalized_at"`
}

// Normalize converts raw CSV records (header row first) into an immutable
// table. Row-level problems degrade the row and continue; only a missing or
// unusable header fails the load.
func Normalize(records [][]string) (*model.Table, Report, error) {
	report := Report{NormalizedAt: clock.Now().UTC()}

	if len(records) == 0 {
		return nil, report, ErrEmptyInput
	}

	idx := headerIndex(records[0])
	if _, ok := idx["time"]; !ok {
		return nil, report, fmt.Errorf("%w: time", ErrMissingColumn)
	}

	rows := make([]model.Quake, 0, len(records)-1)
	seen := make(map[string]struct{}, len(records)-1)

	for _, rec := range records[1:] {
		report.TotalRows++

		ts, ok := parseTime(field(rec, idx, "time"))
		if !ok {
			report.DroppedBadTime++
			continue
		}

		q := model.Quake{
			Time:      ts,
			Latitude:  parseFloatPtr(field(rec, idx, "latitude")),
			Longitude: parseFloatPtr(field(rec, idx, "longitude")),
			Depth:     parseFloatPtr(field(rec, idx, "depth")),
			Magnitude: parseFloatPtr(magnitudeField(rec, idx)),
			Place:     strings.TrimSpace(field(rec, idx, "place")),
		}

		q.Type = strings.TrimSpace(field(rec, idx, "type"))
		if q.Type == "" {
			q.Type = unknownType
		}

		q.Region = strings.TrimSpace(field(rec, idx, "region"))
		if q.Region == "" {
			q.Region = regionFromPlace(q.Place)
		}

		q.ID = strings.TrimSpace(field(rec, idx, "id"))
		if q.ID == "" {
			q.ID = synthesizeID(q)
			report.SynthesizedIDs++
		}

		if _, dup := seen[q.ID]; dup {
			report.DroppedDuplicateID++
			continue
		}
		seen[q.ID] = struct{}{}

		rows = append(rows, q)
	}

	report.Kept = len(rows)
	return model.NewTable(rows), report, nil
}

// headerIndex maps lowercased column names to positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// field returns the named column of a row, or "" when absent.
func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// magnitudeField reads the magnitude column under either of its names.
func magnitudeField(rec []string, idx map[string]int) string {
	if v := field(rec, idx, "mag"); strings.TrimSpace(v) != "" {
		return v
	}
	return field(rec, idx, "magnitude")
}

// parseTime tries the known layouts and normalizes to UTC.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseFloatPtr parses a string as float64, returning nil on failure so the
// row survives with the measurement marked unmeasured.
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// regionFromPlace derives the grouping label from the free-text place:
// the segment after the last comma, or the whole place when it has none.
func regionFromPlace(place string) string {
	place = strings.TrimSpace(place)
	if place == "" {
		return UnknownRegion
	}
	seg := place
	if i := strings.LastIndex(place, ","); i >= 0 {
		seg = place[i+1:]
	}
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return UnknownRegion
	}
	return seg
}

// synthesizeID produces a deterministic id from the row's key fields.
// Reloading the same data yields the same id, keeping dedup stable.
func synthesizeID(q model.Quake) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s",
		q.Time.Format(time.RFC3339Nano),
		floatKey(q.Latitude),
		floatKey(q.Longitude),
		floatKey(q.Magnitude),
		q.Place,
	)
	hash := sha256.Sum256([]byte(input))
	return "q-" + hex.EncodeToString(hash[:8])
}

func floatKey(v *float64) string {
	if v == nil {
		return "nil"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
