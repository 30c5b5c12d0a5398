package feed

import "errors"

// Sentinel kinds for feed loading errors.
var (
	ErrFetchFeed  = errors.New("fetch feed")
	ErrFeedStatus = errors.New("unexpected feed status")
	ErrParseFeed  = errors.New("parse feed")
)
