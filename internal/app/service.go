// Package service provides the core dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quakescope/quakescope/internal/adapters/feed"
	"github.com/quakescope/quakescope/internal/adapters/snapshot"
	"github.com/quakescope/quakescope/internal/adapters/store"
	"github.com/quakescope/quakescope/internal/domain/aggregate"
	"github.com/quakescope/quakescope/internal/domain/catalog"
	"github.com/quakescope/quakescope/internal/domain/filter"
	"github.com/quakescope/quakescope/internal/domain/model"
	"github.com/quakescope/quakescope/pkg/logger"
	"github.com/quakescope/quakescope/pkg/metrics"
)

// Loader produces a normalized table from one data source.
type Loader interface {
	Load(ctx context.Context) (*model.Table, catalog.Report, error)
}

// Service implements the dashboard operations: it owns the catalog store,
// loads the snapshot at startup, refetches the live feed on demand, and
// runs the filter-and-aggregate pipeline per request.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalogs store.Store
	snapshot Loader
	live     Loader

	// Configuration
	snapshotPath    string
	feedURL         string
	feedTimeout     time.Duration
	histogramBins   int
	tablePageSize   int
	maxPageSize     int
	boxPlotGroups   int
	defaultMagMin   float64
	defaultMagMax   float64
	defaultDepthMin float64
	defaultDepthMax float64

	// State
	started   bool
	startedAt time.Time
	clock     clockwork.Clock
	fallbacks atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSnapshotPath sets the local snapshot CSV location.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithFeedURL sets the live feed location.
func WithFeedURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.feedURL = url
		}
	}
}

// WithFeedTimeout bounds the live fetch.
func WithFeedTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.feedTimeout = timeout
		}
	}
}

// WithHistogramBins sets the magnitude histogram bin count.
func WithHistogramBins(bins int) Option {
	return func(s *Service) {
		if bins > 0 {
			s.histogramBins = bins
		}
	}
}

// WithTablePageSize sets the default table page size.
func WithTablePageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.tablePageSize = size
		}
	}
}

// WithMaxPageSize caps the page size a request may ask for.
func WithMaxPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxPageSize = size
		}
	}
}

// WithBoxPlotGroups caps how many regions the depth box plot shows.
func WithBoxPlotGroups(groups int) Option {
	return func(s *Service) {
		if groups > 0 {
			s.boxPlotGroups = groups
		}
	}
}

// WithDefaultMagnitudeRange sets the slider defaults reported by Meta.
func WithDefaultMagnitudeRange(min, max float64) Option {
	return func(s *Service) {
		if min <= max {
			s.defaultMagMin = min
			s.defaultMagMax = max
		}
	}
}

// WithDefaultDepthRange sets the slider defaults reported by Meta.
func WithDefaultDepthRange(min, max float64) Option {
	return func(s *Service) {
		if min <= max {
			s.defaultDepthMin = min
			s.defaultDepthMax = max
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the service clock.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithStore replaces the catalog store.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.catalogs = st
		}
	}
}

// WithSnapshotLoader replaces the snapshot loader.
func WithSnapshotLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.snapshot = l
		}
	}
}

// WithLiveLoader replaces the live feed loader.
func WithLiveLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.live = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshotPath:    "data/earthquakes_snapshot.csv",
		feedURL:         "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.csv",
		feedTimeout:     15 * time.Second,
		histogramBins:   30,
		tablePageSize:   12,
		maxPageSize:     500,
		boxPlotGroups:   6,
		defaultMagMin:   3,
		defaultMagMax:   7,
		defaultDepthMin: 0,
		defaultDepthMax: 200,
		clock:           clockwork.NewRealClock(),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the snapshot catalog and publishes it. A snapshot failure is
// fatal: without it there is nothing to serve and nothing to fall back to.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	// Initialize components
	if s.catalogs == nil {
		s.catalogs = store.NewMemStore(store.WithClock(s.clock))
	}
	if s.snapshot == nil {
		s.snapshot = snapshot.NewLoader(snapshot.WithPath(s.snapshotPath))
	}
	if s.live == nil {
		s.live = feed.NewClient(feed.WithURL(s.feedURL), feed.WithTimeout(s.feedTimeout))
	}

	start := s.clock.Now()
	table, report, err := s.snapshot.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	metrics.RecordCatalogLoadDuration(string(model.SourceSnapshot), float64(s.clock.Since(start).Milliseconds()))
	recordDropped(report)

	s.catalogs.Put(ctx, store.Entry{
		Source: model.SourceSnapshot,
		Table:  table,
		Report: report,
	})

	s.started = true
	s.startedAt = s.clock.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.String("snapshot", s.snapshotPath),
		logger.Int("rows", table.Len()),
		logger.Int("regions", len(table.Regions)),
		logger.Int("droppedBadTime", report.DroppedBadTime),
		logger.Int("droppedDuplicateID", report.DroppedDuplicateID),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// entryFor resolves the catalog that serves a request. Snapshot reads come
// straight from the store; live always refetches, falling back to the
// snapshot catalog on any failure.
func (s *Service) entryFor(ctx context.Context, source model.Source) (store.Entry, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	if !started {
		return store.Entry{}, ErrNotStarted
	}

	if source == model.SourceLive {
		return s.loadLive(ctx)
	}

	return s.catalogs.Get(ctx, model.SourceSnapshot)
}

// loadLive fetches the feed once. The fallback is silent toward the
// caller: the snapshot entry is served and only the log and a counter
// record that the feed was unreachable.
func (s *Service) loadLive(ctx context.Context) (store.Entry, error) {
	start := s.clock.Now()
	table, report, err := s.live.Load(ctx)
	if err != nil {
		s.fallbacks.Add(1)
		metrics.RecordFeedFallback()
		s.logger.Warn(ctx, "live feed unavailable, serving snapshot",
			logger.Error(err),
		)

		return s.catalogs.Get(ctx, model.SourceSnapshot)
	}

	metrics.RecordCatalogLoadDuration(string(model.SourceLive), float64(s.clock.Since(start).Milliseconds()))
	recordDropped(report)

	s.catalogs.Put(ctx, store.Entry{
		Source: model.SourceLive,
		Table:  table,
		Report: report,
	})

	return s.catalogs.Get(ctx, model.SourceLive)
}

// Dashboard runs the pipeline once for the given criteria and returns the
// filtered rows plus every chart aggregate.
func (s *Service) Dashboard(ctx context.Context, c filter.Criteria) (aggregate.Result, error) {
	entry, err := s.entryFor(ctx, c.Source)
	if err != nil {
		return aggregate.Result{}, err
	}

	start := s.clock.Now()
	res := aggregate.Apply(entry.Table, c, s.histogramBins)

	metrics.RecordPipelineRun()
	metrics.RecordPipelineDuration(float64(s.clock.Since(start).Milliseconds()))
	metrics.RecordPipelineRowsKept(len(res.Rows))

	s.logger.Debug(ctx, "pipeline run",
		logger.String("source", string(entry.Source)),
		logger.Int("tableRows", entry.Table.Len()),
		logger.Int("keptRows", len(res.Rows)),
	)

	return res, nil
}

// RowsPage is one page of filtered rows for the table tab, newest first.
type RowsPage struct {
	Rows     []model.Quake `json:"rows"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int           `json:"total"`
	Pages    int           `json:"pages"`
}

// Rows pages through the filtered rows in time-descending order. Page
// numbers start at 1; a page past the end is empty, not an error.
func (s *Service) Rows(ctx context.Context, c filter.Criteria, page, pageSize int) (RowsPage, error) {
	entry, err := s.entryFor(ctx, c.Source)
	if err != nil {
		return RowsPage{}, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.tablePageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	matched := filter.Select(entry.Table, c)

	// Select keeps time-ascending order; the table tab shows newest first.
	newest := make([]model.Quake, len(matched))
	for i := range matched {
		newest[i] = matched[len(matched)-1-i]
	}

	total := len(newest)
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}

	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}

	return RowsPage{
		Rows:     newest[lo:hi],
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
	}, nil
}

// Defaults are the initial widget positions the UI starts from. They are
// presentation defaults: the pipeline itself treats absent bounds as
// unrestricted.
type Defaults struct {
	MagMin        float64 `json:"mag_min"`
	MagMax        float64 `json:"mag_max"`
	DepthMin      float64 `json:"depth_min"`
	DepthMax      float64 `json:"depth_max"`
	HistogramBins int     `json:"histogram_bins"`
	TablePageSize int     `json:"table_page_size"`
	BoxPlotGroups int     `json:"box_plot_groups"`
}

// Meta describes one source's catalog: facet inventories, observed bounds,
// widget defaults, and the normalization report.
type Meta struct {
	Source       model.Source   `json:"source"`
	Rows         int            `json:"rows"`
	Regions      []string       `json:"regions"`
	Types        []string       `json:"types"`
	MinTime      *time.Time     `json:"min_time,omitempty"`
	MaxTime      *time.Time     `json:"max_time,omitempty"`
	MinMagnitude *float64       `json:"min_magnitude,omitempty"`
	MaxMagnitude *float64       `json:"max_magnitude,omitempty"`
	MinDepth     *float64       `json:"min_depth,omitempty"`
	MaxDepth     *float64       `json:"max_depth,omitempty"`
	Defaults     Defaults       `json:"defaults"`
	Report       catalog.Report `json:"report"`
	LoadedAt     time.Time      `json:"loaded_at"`
}

// Meta reports the facets and bounds the UI builds its widgets from.
func (s *Service) Meta(ctx context.Context, source model.Source) (Meta, error) {
	entry, err := s.entryFor(ctx, source)
	if err != nil {
		return Meta{}, err
	}

	table := entry.Table
	m := Meta{
		Source:       entry.Source,
		Rows:         table.Len(),
		Regions:      table.Regions,
		Types:        table.Types,
		MinMagnitude: table.MinMagnitude,
		MaxMagnitude: table.MaxMagnitude,
		MinDepth:     table.MinDepth,
		MaxDepth:     table.MaxDepth,
		Defaults: Defaults{
			MagMin:        s.defaultMagMin,
			MagMax:        s.defaultMagMax,
			DepthMin:      s.defaultDepthMin,
			DepthMax:      s.defaultDepthMax,
			HistogramBins: s.histogramBins,
			TablePageSize: s.tablePageSize,
			BoxPlotGroups: s.boxPlotGroups,
		},
		Report:   entry.Report,
		LoadedAt: entry.LoadedAt,
	}

	if !table.MinTime.IsZero() {
		minTime := table.MinTime
		m.MinTime = &minTime
	}
	if !table.MaxTime.IsZero() {
		maxTime := table.MaxTime
		m.MaxTime = &maxTime
	}

	return m, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"histogram_bins":  s.histogramBins,
		"table_page_size": s.tablePageSize,
		"feed_url":        s.feedURL,
		"snapshot_path":   s.snapshotPath,
	}

	if s.started {
		stats["uptime_seconds"] = s.clock.Since(s.startedAt).Seconds()
		stats["feed_fallbacks"] = s.fallbacks.Load()
		stats["sources"] = s.catalogs.Stats(context.Background())
	}

	return stats
}

// Fallbacks reports how many live fetches fell back to the snapshot.
func (s *Service) Fallbacks() int64 {
	return s.fallbacks.Load()
}

func recordDropped(report catalog.Report) {
	metrics.RecordRowsDropped("bad_time", report.DroppedBadTime)
	metrics.RecordRowsDropped("duplicate_id", report.DroppedDuplicateID)
}
