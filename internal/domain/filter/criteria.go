// Package filter defines the immutable selection a dashboard interaction
// produces and the conjunction of predicates that picks matching rows.
package filter

import (
	"strings"
	"time"

	"github.com/quakescope/quakescope/internal/domain/model"
)

// Criteria is an immutable snapshot of the user's current selection.
// The zero value places no restriction at all: zero times mean an unbounded
// date range, nil bounds mean an unbounded measurement range, empty sets
// select every region and type, and an empty keyword matches everything.
// A new Criteria is built per interaction; it is never mutated.
type Criteria struct {
	Start time.Time
	End   time.Time

	MagMin   *float64
	MagMax   *float64
	DepthMin *float64
	DepthMax *float64

	Regions []string
	Types   []string

	Keyword string

	Source model.Source
}

// evaluator carries the per-invocation state derived from one Criteria:
// lowered keyword, membership sets, and whether each measurement range is
// narrower than the table's observed range. Nil measurements fail a range
// predicate only when that range is restrictive; otherwise an unmeasured
// row passes, which keeps default criteria a no-op over the whole table.
type evaluator struct {
	c                Criteria
	keyword          string
	regions          map[string]struct{}
	types            map[string]struct{}
	magRestrictive   bool
	depthRestrictive bool
}

func newEvaluator(table *model.Table, c Criteria) *evaluator {
	e := &evaluator{
		c:                c,
		keyword:          strings.ToLower(strings.TrimSpace(c.Keyword)),
		magRestrictive:   rangeRestrictive(c.MagMin, c.MagMax, table.MinMagnitude, table.MaxMagnitude),
		depthRestrictive: rangeRestrictive(c.DepthMin, c.DepthMax, table.MinDepth, table.MaxDepth),
	}
	if len(c.Regions) > 0 {
		e.regions = make(map[string]struct{}, len(c.Regions))
		for _, r := range c.Regions {
			e.regions[r] = struct{}{}
		}
	}
	if len(c.Types) > 0 {
		e.types = make(map[string]struct{}, len(c.Types))
		for _, t := range c.Types {
			e.types[t] = struct{}{}
		}
	}
	return e
}

func (e *evaluator) matches(q *model.Quake) bool {
	return e.timeMatches(q) &&
		e.magnitudeMatches(q) &&
		e.depthMatches(q) &&
		e.regionMatches(q) &&
		e.typeMatches(q) &&
		e.keywordMatches(q)
}

func (e *evaluator) timeMatches(q *model.Quake) bool {
	if !e.c.Start.IsZero() && q.Time.Before(e.c.Start) {
		return false
	}
	if !e.c.End.IsZero() && q.Time.After(e.c.End) {
		return false
	}
	return true
}

func (e *evaluator) magnitudeMatches(q *model.Quake) bool {
	if q.Magnitude == nil {
		return !e.magRestrictive
	}
	return inRange(*q.Magnitude, e.c.MagMin, e.c.MagMax)
}

func (e *evaluator) depthMatches(q *model.Quake) bool {
	if q.Depth == nil {
		return !e.depthRestrictive
	}
	return inRange(*q.Depth, e.c.DepthMin, e.c.DepthMax)
}

func (e *evaluator) regionMatches(q *model.Quake) bool {
	if e.regions == nil {
		return true
	}
	_, ok := e.regions[q.Region]
	return ok
}

func (e *evaluator) typeMatches(q *model.Quake) bool {
	if e.types == nil {
		return true
	}
	_, ok := e.types[q.Type]
	return ok
}

func (e *evaluator) keywordMatches(q *model.Quake) bool {
	if e.keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(q.Place), e.keyword)
}

// rangeRestrictive reports whether a requested [lo, hi] is narrower than the
// observed [obsLo, obsHi]. A bound set on a table with no observed values at
// all counts as restrictive, keeping unmeasured rows out of a bounded view.
func rangeRestrictive(lo, hi, obsLo, obsHi *float64) bool {
	if lo != nil && (obsLo == nil || *lo > *obsLo) {
		return true
	}
	if hi != nil && (obsHi == nil || *hi < *obsHi) {
		return true
	}
	return false
}

// inRange checks v against optional inclusive bounds. An inverted range
// (lo > hi) matches nothing.
func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

// Select returns the rows of table matching c, preserving time order.
// It is a pure function: identical input yields identical output.
func Select(table *model.Table, c Criteria) []model.Quake {
	e := newEvaluator(table, c)
	out := make([]model.Quake, 0, len(table.Rows))
	for i := range table.Rows {
		if e.matches(&table.Rows[i]) {
			out = append(out, table.Rows[i])
		}
	}
	return out
}

// Matches reports whether a single row satisfies every predicate of c
// against table's observed ranges.
func Matches(table *model.Table, c Criteria, q model.Quake) bool {
	return newEvaluator(table, c).matches(&q)
}
