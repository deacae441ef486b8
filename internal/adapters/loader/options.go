package loader

import "time"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithClock sets the time source stamped on loaded datasets.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// WithBuiltinVenues controls whether the default venue table is used when
// venues.csv is absent. Enabled by default.
func WithBuiltinVenues(enabled bool) Option {
	return func(l *Loader) {
		l.builtinVenues = enabled
	}
}
