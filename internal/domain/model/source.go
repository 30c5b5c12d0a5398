package model

import (
	"fmt"
	"strings"
)

// Source selects which dataset backs the dashboard.
type Source string

// The two supported data sources.
const (
	// SourceSnapshot reads the bundled CSV. Failure to load it is fatal.
	SourceSnapshot Source = "snapshot"
	// SourceLive fetches the remote feed once, substituting the snapshot
	// on any failure.
	SourceLive Source = "live"
)

// String returns the wire form of the source.
func (s Source) String() string { return string(s) }

// ParseSource maps a request value to a Source. Empty input selects the
// snapshot. Unknown values return ErrUnknownSource.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SourceSnapshot):
		return SourceSnapshot, nil
	case string(SourceLive):
		return SourceLive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}
