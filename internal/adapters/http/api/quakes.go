// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// quakesRequest mirrors the OpenAPI schema for POST /v1/quakes: filter
// criteria plus paging. Page numbers start at 1.
type quakesRequest struct {
	criteriaRequest
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// QuakesHandler handles paged row requests for the table tab.
type QuakesHandler struct {
	deps Dependencies
}

// NewQuakesHandler creates a new quakes handler.
func NewQuakesHandler(deps Dependencies) *QuakesHandler {
	return &QuakesHandler{deps: deps}
}

// HandleQuakes handles POST /v1/quakes requests.
func (h *QuakesHandler) HandleQuakes(w http.ResponseWriter, r *http.Request) {
	const op = "api.quakes"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req quakesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest, err))
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err, nil))
		return
	}

	page, err := h.deps.Rows(r.Context(), criteria, req.Page, req.PageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err, nil))
		return
	}

	writeJSON(w, http.StatusOK, page)
}
