package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// wrapOp tags an error with the handler operation that produced it. The
// cause may be nil when the kind already says everything.
func wrapOp(op string, kind error, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}

	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}
