// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Default configuration values.
const (
	defaultAddr          = ":8050"
	defaultSnapshotPath  = "data/earthquakes_snapshot.csv"
	defaultFeedURL       = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.csv"
	defaultFeedTimeoutMS = 15_000
	defaultHistogramBins = 30
	defaultTablePageSize = 12
	defaultMaxPageSize   = 500
	defaultBoxPlotGroups = 6
)

// Default filter bounds presented to the dashboard.
const (
	defaultMagMin   = 3.0
	defaultMagMax   = 7.0
	defaultDepthMin = 0.0
	defaultDepthMax = 200.0
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// SnapshotPath locates the bundled earthquake CSV. Unreadable or
	// unparseable snapshot data is fatal at startup.
	SnapshotPath string `koanf:"snapshot_path"`

	// FeedURL is the live catalog feed fetched when the live source is
	// selected. Any failure falls back to the snapshot.
	FeedURL string `koanf:"feed_url"`

	// FeedTimeoutMS bounds the single live fetch attempt.
	FeedTimeoutMS int `koanf:"feed_timeout_ms"`

	// HistogramBins sets the magnitude histogram bin count.
	HistogramBins int `koanf:"histogram_bins"`

	// TablePageSize is the default page size for the table view.
	TablePageSize int `koanf:"table_page_size"`

	// MaxPageSize caps client-requested page sizes.
	MaxPageSize int `koanf:"max_page_size"`

	// BoxPlotGroups caps how many regions the depth box plot displays,
	// picked by descending depth sample count.
	BoxPlotGroups int `koanf:"box_plot_groups"`

	// DefaultMagMin and DefaultMagMax seed the magnitude range slider.
	DefaultMagMin float64 `koanf:"default_mag_min"`
	DefaultMagMax float64 `koanf:"default_mag_max"`

	// DefaultDepthMin and DefaultDepthMax seed the depth range slider
	// in kilometers.
	DefaultDepthMin float64 `koanf:"default_depth_min"`
	DefaultDepthMax float64 `koanf:"default_depth_max"`
}

// New creates a Config populated with defaults. Load applies file and
// environment overrides on top of this.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            defaultAddr,
		SnapshotPath:    defaultSnapshotPath,
		FeedURL:         defaultFeedURL,
		FeedTimeoutMS:   defaultFeedTimeoutMS,
		HistogramBins:   defaultHistogramBins,
		TablePageSize:   defaultTablePageSize,
		MaxPageSize:     defaultMaxPageSize,
		BoxPlotGroups:   defaultBoxPlotGroups,
		DefaultMagMin:   defaultMagMin,
		DefaultMagMax:   defaultMagMax,
		DefaultDepthMin: defaultDepthMin,
		DefaultDepthMax: defaultDepthMax,
	}
	return c
}
