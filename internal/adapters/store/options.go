package store

import "github.com/jonboulle/clockwork"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithClock replaces the clock used to stamp published entries.
func WithClock(clock clockwork.Clock) Option {
	return func(s *MemStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}
