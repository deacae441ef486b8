package cache

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxSize sets the maximum number of entries.
// If maxSize <= 0 the cache is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}

// WithEvictHook registers fn to run for every entry evicted to make room.
// fn runs with the cache lock held and must not call back into the cache.
func WithEvictHook(fn func(Key)) Option {
	return func(c *inMemoryCache) {
		c.onEvict = fn
	}
}
