package store

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrNotLoaded = errors.New("source not loaded")
)
