// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/quakescope/quakescope/internal/domain/model"
)

// MetaHandler handles catalog metadata requests.
type MetaHandler struct {
	deps Dependencies
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(deps Dependencies) *MetaHandler {
	return &MetaHandler{deps: deps}
}

// HandleMeta handles GET /v1/meta?source= requests. The UI calls this once
// per source selection to build its filter widgets.
func (h *MetaHandler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	const op = "api.meta"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	source, err := model.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest, err))
		return
	}

	meta, err := h.deps.Meta(r.Context(), source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err, nil))
		return
	}

	writeJSON(w, http.StatusOK, meta)
}
