package store

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/quakescope/quakescope/internal/domain/model"
	"github.com/quakescope/quakescope/pkg/metrics"
)

// MemStore is the in-memory Store implementation. Each source owns one
// atomic pointer slot; Put swaps the whole entry, so readers always see a
// complete catalog, never a partial update.
type MemStore struct {
	clock    clockwork.Clock
	snapshot slot
	live     slot
}

type slot struct {
	entry atomic.Pointer[Entry]
	loads atomic.Int64
}

// NewMemStore constructs an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		clock: clockwork.NewRealClock(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemStore) slotFor(source model.Source) *slot {
	if source == model.SourceLive {
		return &s.live
	}

	return &s.snapshot
}

// Put implements Store.Put. A zero LoadedAt is stamped with the store
// clock.
func (s *MemStore) Put(_ context.Context, e Entry) {
	if e.Table == nil {
		e.Table = model.NewTable(nil)
	}
	if e.LoadedAt.IsZero() {
		e.LoadedAt = s.clock.Now().UTC()
	}

	sl := s.slotFor(e.Source)
	sl.entry.Store(&e)
	sl.loads.Add(1)

	metrics.RecordCatalogLoad(string(e.Source))
	metrics.UpdateCatalogRows(string(e.Source), e.Table.Len())
	metrics.UpdateCatalogRegions(string(e.Source), len(e.Table.Regions))
}

// Get implements Store.Get.
func (s *MemStore) Get(_ context.Context, source model.Source) (Entry, error) {
	e := s.slotFor(source).entry.Load()
	if e == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotLoaded, source)
	}

	return *e, nil
}

// Stats implements Store.Stats.
func (s *MemStore) Stats(_ context.Context) Stats {
	out := make(Stats, 2)
	for _, source := range []model.Source{model.SourceSnapshot, model.SourceLive} {
		sl := s.slotFor(source)
		st := SourceStats{Loads: sl.loads.Load()}

		if e := sl.entry.Load(); e != nil {
			st.Rows = e.Table.Len()
			st.Regions = len(e.Table.Regions)
			st.Dropped = e.Report.DroppedBadTime + e.Report.DroppedDuplicateID
			loadedAt := e.LoadedAt
			st.LoadedAt = &loadedAt
		}

		out[source] = st
	}

	return out
}
