package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/quakescope/quakescope/internal/testquakes"
)

// Default configuration constants.
const (
	defaultNumRows    = 2000
	defaultDays       = 30
	defaultOutput     = "data/earthquakes_snapshot.csv"
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		output  = flag.String("out", defaultOutput, "Output CSV path")
		numRows = flag.Int("rows", defaultNumRows, "Number of rows to generate")
		days    = flag.Int("days", defaultDays, "Calendar span ending now that event times cover")
		seed    = flag.Int64("seed", 0, "RNG seed for reproducible output (0 derives from the clock)")
		workers = flag.Int("workers", runtime.NumCPU(), "Number of concurrent generation workers")
		messy   = flag.Bool("messy", false, "Inject rows with missing values, bad timestamps, and duplicate ids")
		logFile = flag.String("log", "", "Log file for generator output (default: gensnapshot_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose output")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testquakes.ShowHelp()
		return
	}

	// Setup logging
	if err := testquakes.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create generator configuration
	config := &testquakes.Config{
		NumRows:    *numRows,
		Days:       *days,
		Seed:       *seed,
		Workers:    *workers,
		OutputFile: *output,
		LogFile:    *logFile,
		Messy:      *messy,
		Verbose:    *verbose,
	}

	// Run the generator
	if err := testquakes.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		return
	}
}
