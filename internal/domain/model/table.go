package model

import (
	"sort"
	"time"
)

// Table is an immutable, time-ordered earthquake catalog plus the observed
// bounds and facet inventories the dashboard needs to build its widgets.
// Tables are never mutated after construction; concurrent reads are safe.
type Table struct {
	Rows []Quake

	// Observed time bounds; zero when the table is empty.
	MinTime time.Time
	MaxTime time.Time

	// Observed magnitude and depth bounds over non-nil values;
	// nil when no row carries the measurement.
	MinMagnitude *float64
	MaxMagnitude *float64
	MinDepth     *float64
	MaxDepth     *float64

	// Facet inventories, sorted alphabetically for stable widget order.
	Regions []string
	Types   []string
}

// NewTable builds a Table from rows, sorting them by time ascending and
// computing observed bounds and facets once. The input slice is retained.
func NewTable(rows []Quake) *Table {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })

	t := &Table{Rows: rows}
	if len(rows) > 0 {
		t.MinTime = rows[0].Time
		t.MaxTime = rows[len(rows)-1].Time
	}

	regions := make(map[string]struct{})
	types := make(map[string]struct{})
	for i := range rows {
		r := &rows[i]
		if r.Region != "" {
			regions[r.Region] = struct{}{}
		}
		if r.Type != "" {
			types[r.Type] = struct{}{}
		}
		if r.Magnitude != nil {
			t.MinMagnitude = minPtr(t.MinMagnitude, *r.Magnitude)
			t.MaxMagnitude = maxPtr(t.MaxMagnitude, *r.Magnitude)
		}
		if r.Depth != nil {
			t.MinDepth = minPtr(t.MinDepth, *r.Depth)
			t.MaxDepth = maxPtr(t.MaxDepth, *r.Depth)
		}
	}

	t.Regions = sortedKeys(regions)
	t.Types = sortedKeys(types)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

func minPtr(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

func maxPtr(cur *float64, v float64) *float64 {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
