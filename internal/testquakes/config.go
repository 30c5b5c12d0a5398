package testquakes

import "time"

// Config holds configuration for the snapshot generator.
type Config struct {
	NumRows    int    // Number of rows to generate
	Days       int    // Calendar span ending now that event times cover
	Seed       int64  // RNG seed; 0 derives one from the clock
	Workers    int    // Number of concurrent generation workers
	OutputFile string // Output CSV path
	LogFile    string // Log file for generator output
	Messy      bool   // Inject rows that exercise the normalizer drop paths
	Verbose    bool   // Enable verbose output
}

// Row is one CSV record in writing order. Cells are strings because the
// generator needs to emit empty and malformed cells on demand.
type Row struct {
	Time      string
	Latitude  string
	Longitude string
	Depth     string
	Mag       string
	Place     string
	Type      string
	ID        string
}

// Stats holds generation statistics.
type Stats struct {
	RowsGenerated    int
	MissingMagnitude int
	MissingDepth     int
	MissingID        int
	BadTimeRows      int
	DuplicateIDs     int
	LoadedRows       int
	DroppedRows      int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
