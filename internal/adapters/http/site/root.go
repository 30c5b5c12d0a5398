// Package site serves the embedded dashboard single-page app.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard UI to the mux root. The API endpoints
// live under /v1 and are registered separately, so the file server only
// sees page and asset requests.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/", files)
}
