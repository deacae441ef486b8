package watch

import "time"

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the directory must be quiet before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}
