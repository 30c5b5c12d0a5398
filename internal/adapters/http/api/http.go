// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	service "github.com/quakescope/quakescope/internal/app"
	"github.com/quakescope/quakescope/internal/domain/aggregate"
	"github.com/quakescope/quakescope/internal/domain/filter"
	"github.com/quakescope/quakescope/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dashboard runs the filter-and-aggregate pipeline once.
	Dashboard(ctx context.Context, c filter.Criteria) (aggregate.Result, error)

	// Rows pages through filtered rows, newest first.
	Rows(ctx context.Context, c filter.Criteria, page, pageSize int) (RowsPage, error)

	// Meta reports a source's facets, bounds, and widget defaults.
	Meta(ctx context.Context, source model.Source) (Meta, error)
}

// RowsPage mirrors the paged read shape returned by row queries.
type RowsPage = service.RowsPage

// Meta mirrors the catalog metadata shape.
type Meta = service.Meta

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	quakesHandler    *QuakesHandler
	metaHandler      *MetaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		quakesHandler:    NewQuakesHandler(deps),
		metaHandler:      NewMetaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/v1/dashboard", wrap(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/v1/quakes", wrap(s.quakesHandler.HandleQuakes, "quakes"))
	mux.HandleFunc("/v1/meta", wrap(s.metaHandler.HandleMeta, "meta"))
	mux.HandleFunc("/v1/stats", wrap(s.statsHandler.HandleStats, "stats"))
}

// dateLayout is the widget date format: a bare calendar day.
const dateLayout = "2006-01-02"

// allSentinel is the UI's "no restriction" choice in category dropdowns.
const allSentinel = "all"

// criteriaRequest mirrors the OpenAPI schema for filter criteria. Zero
// values mean "no restriction", matching the pipeline's defaults.
type criteriaRequest struct {
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	MagMin   *float64 `json:"mag_min,omitempty"`
	MagMax   *float64 `json:"mag_max,omitempty"`
	DepthMin *float64 `json:"depth_min,omitempty"`
	DepthMax *float64 `json:"depth_max,omitempty"`
	Regions  []string `json:"regions,omitempty"`
	Types    []string `json:"types,omitempty"`
	Keyword  string   `json:"keyword,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// toCriteria validates and converts the wire shape. Date-only bounds cover
// whole days: the start opens at midnight UTC, the end closes at the last
// nanosecond of its day, keeping both bounds inclusive.
func (cr criteriaRequest) toCriteria() (filter.Criteria, error) {
	c := filter.Criteria{
		MagMin:   cr.MagMin,
		MagMax:   cr.MagMax,
		DepthMin: cr.DepthMin,
		DepthMax: cr.DepthMax,
		Regions:  dropAllSentinel(cr.Regions),
		Types:    dropAllSentinel(cr.Types),
		Keyword:  cr.Keyword,
	}

	source, err := model.ParseSource(cr.Source)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	c.Source = source

	if cr.Start != "" {
		start, _, err := parseBound(cr.Start)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("%w: invalid start: %w", ErrBadRequest, err)
		}
		c.Start = start
	}

	if cr.End != "" {
		_, end, err := parseBound(cr.End)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("%w: invalid end: %w", ErrBadRequest, err)
		}
		c.End = end
	}

	return c, nil
}

// parseBound reads a time bound as either a bare date or RFC 3339. For a
// bare date it returns the day's opening and closing instants; an exact
// timestamp is both at once.
func parseBound(s string) (time.Time, time.Time, error) {
	s = strings.TrimSpace(s)

	if day, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return day, day.Add(24*time.Hour - time.Nanosecond), nil
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return ts, ts, nil
}

// dropAllSentinel removes the UI's "All" choice; selecting it is the same
// as selecting nothing.
func dropAllSentinel(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), allSentinel) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}

	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
