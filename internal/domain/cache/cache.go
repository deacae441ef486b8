// Package cache holds computed views keyed by dataset generation and query.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Key identifies one computed view of one dataset generation.
type Key struct {
	Generation uint64
	View       string
	Query      string
}

// String renders the key as "gen/view?query".
func (k Key) String() string {
	if k.Query == "" {
		return fmt.Sprintf("%d/%s", k.Generation, k.View)
	}
	return fmt.Sprintf("%d/%s?%s", k.Generation, k.View, k.Query)
}

// Cache stores computed views.
type Cache interface {
	// Get returns the value stored under key. Entries of a generation older
	// than the newest one stored are never returned.
	Get(ctx context.Context, key Key) (any, bool)

	// Put stores value under key, evicting the least recently used entry
	// when full.
	// Values of a generation older than the newest one stored are dropped.
	Put(ctx context.Context, key Key, value any)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Len() int64
}

// node is one entry of the recency-ordered list.
type node struct {
	key        Key
	value      any
	prev, next *node
}

func (n *node) reset() {
	n.key = Key{}
	n.value = nil
	n.prev = nil
	n.next = nil
}

// inMemoryCache evicts the least recently used entry when bounded.
// maxSize <= 0 means unbounded.
type inMemoryCache struct {
	mu         sync.Mutex
	entries    map[Key]*node
	head, tail *node // head is the most recently used entry
	maxSize    int
	generation uint64
	size       atomic.Int64
	nodePool   sync.Pool
	onEvict    func(Key)
}

// NewInMemoryCache creates a bounded cache.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 512,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[Key]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(_ context.Context, key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key.Generation < c.generation {
		return nil, false
	}
	n, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(n)
	return n.value, true
}

func (c *inMemoryCache) Put(_ context.Context, key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case key.Generation < c.generation:
		return
	case key.Generation > c.generation:
		c.generation = key.Generation
		c.dropOlder()
	}

	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.value = value
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[key] = n
	c.size.Add(1)
}

func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.head; n != nil; {
		next := n.next
		n.reset()
		c.nodePool.Put(n)
		n = next
	}
	c.entries = make(map[Key]*node)
	c.head, c.tail = nil, nil
	c.size.Store(0)
}

func (c *inMemoryCache) Len() int64 {
	return c.size.Load()
}

// moveToFront makes n the head. Must be called with c.mu held.
func (c *inMemoryCache) moveToFront(n *node) {
	if c.head == n {
		return
	}
	n.prev.next = n.next
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = c.head
	c.head.prev = n
	c.head = n
}

// unlink removes n from the list and map. Must be called with c.mu held.
func (c *inMemoryCache) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

// evictOldest removes the tail, the least recently used entry. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.tail == nil {
		return
	}
	key := c.tail.key
	c.unlink(c.tail)
	if c.onEvict != nil {
		c.onEvict(key)
	}
}

// dropOlder removes entries of earlier generations. Must be called with c.mu held.
func (c *inMemoryCache) dropOlder() {
	for n := c.head; n != nil; {
		next := n.next
		if n.key.Generation < c.generation {
			c.unlink(n)
		}
		n = next
	}
}
