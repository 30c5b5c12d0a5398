package testquakes

import (
	"context"
	"fmt"
	"log"

	"github.com/quakescope/quakescope/internal/adapters/snapshot"
	"github.com/quakescope/quakescope/internal/domain/model"
)

// verifySnapshot loads the written file through the snapshot loader and
// checks the normalizer's accounting against what the generator injected.
func verifySnapshot(ctx context.Context, config *Config, stats *Stats) error {
	log.Println("🔍 Verifying snapshot...")

	loader := snapshot.NewLoader(snapshot.WithPath(config.OutputFile))
	table, report, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot back: %w", err)
	}

	stats.LoadedRows = table.Len()
	stats.DroppedRows = report.DroppedBadTime + report.DroppedDuplicateID

	if report.TotalRows != stats.RowsGenerated {
		return fmt.Errorf("row count mismatch: wrote %d, loader saw %d",
			stats.RowsGenerated, report.TotalRows)
	}
	if report.Kept+stats.DroppedRows != report.TotalRows {
		return fmt.Errorf("normalizer accounting does not add up: kept %d + dropped %d != total %d",
			report.Kept, stats.DroppedRows, report.TotalRows)
	}

	// The injection counters should match the loader's report exactly;
	// differences are worth a look but not a failed run.
	if report.DroppedBadTime != stats.BadTimeRows {
		log.Printf("⚠️  Bad-time accounting differs: injected %d, loader dropped %d",
			stats.BadTimeRows, report.DroppedBadTime)
	}
	if report.DroppedDuplicateID != stats.DuplicateIDs {
		log.Printf("⚠️  Duplicate accounting differs: injected %d, loader dropped %d",
			stats.DuplicateIDs, report.DroppedDuplicateID)
	}
	if report.SynthesizedIDs != stats.MissingID {
		log.Printf("⚠️  Synthesized-id accounting differs: blanked %d, loader synthesized %d",
			stats.MissingID, report.SynthesizedIDs)
	}

	displayCatalog(table, config.Verbose)

	log.Println("✅ Snapshot verification completed")
	return nil
}

// displayCatalog shows the loaded table's facets and bounds.
func displayCatalog(table *model.Table, verbose bool) {
	log.Printf("📊 Catalog: %d rows across %d regions and %d event types",
		table.Len(), len(table.Regions), len(table.Types))

	if table.MinMagnitude != nil && table.MaxMagnitude != nil {
		log.Printf("   Magnitude: %.2f to %.2f", *table.MinMagnitude, *table.MaxMagnitude)
	}
	if table.MinDepth != nil && table.MaxDepth != nil {
		log.Printf("   Depth: %.2f to %.2f km", *table.MinDepth, *table.MaxDepth)
	}
	if !table.MinTime.IsZero() {
		log.Printf("   Window: %s to %s",
			table.MinTime.Format("2006-01-02"), table.MaxTime.Format("2006-01-02"))
	}

	if verbose {
		for _, region := range table.Regions {
			log.Printf("   Region: %s", region)
		}
	}
}
