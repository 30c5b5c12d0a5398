package snapshot

import "errors"

// Sentinel kinds for snapshot loading errors.
var (
	ErrOpenSnapshot  = errors.New("open snapshot")
	ErrParseSnapshot = errors.New("parse snapshot")
)
