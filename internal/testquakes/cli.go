package testquakes

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/quakescope/quakescope/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gensnapshot_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the snapshot generator.
func ShowHelp() {
	os.Stdout.WriteString(`QuakeScope Snapshot Generator
=============================

Writes a synthetic earthquake snapshot CSV in the shape the dashboard
loads, then reads it back through the real loader to verify it.

Usage:
  go run cmd/gensnapshot/main.go [options]

Options:
  -out string
        Output CSV path (default "data/earthquakes_snapshot.csv")
  -rows int
        Number of rows to generate (default 2000)
  -days int
        Calendar span ending now that event times cover (default 30)
  -seed int
        RNG seed for reproducible output (default 0: derive from clock)
  -workers int
        Number of concurrent generation workers (default CPU cores)
  -messy
        Inject rows with missing values, bad timestamps, and duplicate ids
  -log string
        Log file for generator output (default: gensnapshot_TIMESTAMP.log)
  -verbose
        Enable verbose output
  -help
        Show this help message

Examples:
  # Regenerate the bundled snapshot fixture
  go run cmd/gensnapshot/main.go -seed 42 -messy

  # A large, clean load-test snapshot
  go run cmd/gensnapshot/main.go -out /tmp/big.csv -rows 500000 -days 90
`)
}
