package testquakes

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quakescope/quakescope/pkg/logger"
)

// header matches the column set the snapshot loader expects.
var header = []string{"time", "latitude", "longitude", "depth", "mag", "place", "type", "id"}

// WriteCSV writes rows to the configured output file, creating parent
// directories as needed. An empty OutputFile gets a timestamped name.
func WriteCSV(ctx context.Context, config *Config, rows []Row) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "snapshot_" + timestamp + ".csv"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range rows {
		record := []string{
			rows[i].Time,
			rows[i].Latitude,
			rows[i].Longitude,
			rows[i].Depth,
			rows[i].Mag,
			rows[i].Place,
			rows[i].Type,
			rows[i].ID,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	logger.Get().Info(ctx, "snapshot written",
		logger.String("filename", filename),
		logger.Int("rows", len(rows)))
	return nil
}
