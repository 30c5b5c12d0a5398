package snapshot

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithPath sets the snapshot CSV location.
func WithPath(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.path = path
		}
	}
}
