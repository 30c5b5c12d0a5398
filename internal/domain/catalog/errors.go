package catalog

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyInput    = errors.New("no header row")
	ErrMissingColumn = errors.New("missing required column")
)
