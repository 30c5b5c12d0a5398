// Package store publishes loaded earthquake catalogs, one slot per data
// source. Tables are immutable after normalization, so a published entry is
// safe for any number of concurrent readers.
package store

import (
	"context"
	"time"

	"github.com/quakescope/quakescope/internal/domain/catalog"
	"github.com/quakescope/quakescope/internal/domain/model"
)

// Entry is one published catalog: the table, the normalization report that
// produced it, and when it was published.
type Entry struct {
	Source   model.Source   `json:"source"`
	Table    *model.Table   `json:"-"`
	Report   catalog.Report `json:"report"`
	LoadedAt time.Time      `json:"loaded_at"`
}

// SourceStats summarizes one source slot for the stats endpoint.
type SourceStats struct {
	Loads    int64      `json:"loads"`
	Rows     int        `json:"rows"`
	Regions  int        `json:"regions"`
	Dropped  int        `json:"dropped"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// Stats maps each data source to its slot summary.
type Stats map[model.Source]SourceStats

// Store provides access to the published catalogs.
type Store interface {
	// Put publishes a freshly loaded catalog, replacing the source's
	// previous entry.
	Put(ctx context.Context, e Entry)

	// Get returns the source's current entry.
	// Returns ErrNotLoaded if the source has never been published.
	Get(ctx context.Context, source model.Source) (Entry, error)

	// Stats summarizes every source slot.
	Stats(ctx context.Context) Stats
}
