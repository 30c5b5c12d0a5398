package testquakes

import (
	"context"
	"fmt"
	"time"

	"github.com/quakescope/quakescope/pkg/logger"
)

// Run executes the complete snapshot generation: generate rows, write the
// CSV, then load the file back through the real loader to prove the
// dashboard can serve it.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting snapshot generation",
		logger.String("output", config.OutputFile),
		logger.Int("rows", config.NumRows),
		logger.Int("days", config.Days),
		logger.Any("seed", config.Seed),
		logger.Any("messy", config.Messy))

	// Step 1: Generate rows
	rows, err := Generate(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("row generation failed: %w", err)
	}

	// Step 2: Write the CSV
	if err := WriteCSV(ctx, config, rows); err != nil {
		return fmt.Errorf("snapshot write failed: %w", err)
	}

	// Step 3: Load it back and verify the accounting
	if err := verifySnapshot(ctx, config, stats); err != nil {
		return fmt.Errorf("snapshot verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "snapshot generation completed successfully")
	return nil
}

// displayFinalStats prints the final generation statistics.
func displayFinalStats(stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("missingMagnitude", stats.MissingMagnitude),
		logger.Int("missingDepth", stats.MissingDepth),
		logger.Int("missingID", stats.MissingID),
		logger.Int("badTimeRows", stats.BadTimeRows),
		logger.Int("duplicateIDs", stats.DuplicateIDs),
		logger.Int("loadedRows", stats.LoadedRows),
		logger.Int("droppedRows", stats.DroppedRows),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond))
}
