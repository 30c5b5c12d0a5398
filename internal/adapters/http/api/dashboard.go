// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quakescope/quakescope/internal/domain/aggregate"
)

// DashboardHandler handles dashboard recompute requests.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// mapPoint is one plottable event: a filtered row that carries coordinates.
type mapPoint struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Magnitude *float64  `json:"magnitude"`
	Depth     *float64  `json:"depth"`
	Place     string    `json:"place"`
	Region    string    `json:"region"`
}

// dashboardResponse carries everything one recompute produced, plus an echo
// of the criteria that produced it.
type dashboardResponse struct {
	Criteria      criteriaRequest           `json:"criteria"`
	KPIs          aggregate.KPIs            `json:"kpis"`
	DailyCounts   []aggregate.DayCount      `json:"daily_counts"`
	DailyMeans    []aggregate.DayMean       `json:"daily_mean_magnitude"`
	Histogram     []aggregate.Bin           `json:"magnitude_histogram"`
	DepthByRegion []aggregate.RegionDepths  `json:"depth_by_region"`
	MagDepth      []aggregate.MagDepthPoint `json:"magnitude_depth"`
	MapPoints     []mapPoint                `json:"map_points"`
}

// HandleDashboard handles POST /v1/dashboard requests: decode the criteria,
// run the pipeline once, and return the chart-ready aggregates.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest, err))
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err, nil))
		return
	}

	res, err := h.deps.Dashboard(r.Context(), criteria)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err, nil))
		return
	}

	points := make([]mapPoint, 0, len(res.Rows))
	for i := range res.Rows {
		q := &res.Rows[i]
		if !q.HasCoordinates() {
			continue
		}
		points = append(points, mapPoint{
			ID:        q.ID,
			Time:      q.Time,
			Latitude:  *q.Latitude,
			Longitude: *q.Longitude,
			Magnitude: q.Magnitude,
			Depth:     q.Depth,
			Place:     q.Place,
			Region:    q.Region,
		})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Criteria:      req,
		KPIs:          res.KPIs,
		DailyCounts:   res.DailyCounts,
		DailyMeans:    res.DailyMeans,
		Histogram:     res.Histogram,
		DepthByRegion: res.DepthByRegion,
		MagDepth:      res.MagDepth,
		MapPoints:     points,
	})
}
