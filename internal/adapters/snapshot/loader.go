// Package snapshot loads the bundled earthquake CSV from local disk. It is
// the startup data source and the fallback target when the live feed is
// unreachable.
package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/quakescope/quakescope/internal/domain/catalog"
	"github.com/quakescope/quakescope/internal/domain/model"
)

const defaultPath = "data/earthquakes_snapshot.csv"

// Loader reads and normalizes the snapshot CSV.
type Loader struct {
	path string
}

// NewLoader constructs a snapshot loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		path: defaultPath,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Path reports the file the loader reads from.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the snapshot file and normalizes it into a table. Any open,
// read, or parse failure is returned to the caller; there is no further
// fallback below the snapshot.
func (l *Loader) Load(ctx context.Context) (*model.Table, catalog.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, catalog.Report{}, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w %q: %w", ErrOpenSnapshot, l.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w %q: %w", ErrParseSnapshot, l.path, err)
	}

	table, report, err := catalog.Normalize(records)
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w %q: %w", ErrParseSnapshot, l.path, err)
	}

	return table, report, nil
}
