package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/medalboard/internal/domain/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func key(gen uint64, view string) cache.Key {
	return cache.Key{Generation: gen, View: view}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new cache", t, func() {
		Convey("When created with default options", func() {
			c := cache.NewInMemoryCache()

			Convey("Then it is empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Len(), ShouldEqual, 0)
				_, ok := c.Get(ctx, key(1, "global"))
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When storing a view", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, cache.Key{Generation: 1, View: "global", Query: "noc=FRA"}, "france")

			Convey("Then only the exact key hits", func() {
				v, ok := c.Get(ctx, cache.Key{Generation: 1, View: "global", Query: "noc=FRA"})
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "france")
				_, ok = c.Get(ctx, cache.Key{Generation: 1, View: "global"})
				So(ok, ShouldBeFalse)
			})

			Convey("And storing it again", func() {
				c.Put(ctx, cache.Key{Generation: 1, View: "global", Query: "noc=FRA"}, "updated")

				Convey("Then the value is replaced in place", func() {
					v, _ := c.Get(ctx, cache.Key{Generation: 1, View: "global", Query: "noc=FRA"})
					So(v, ShouldEqual, "updated")
					So(c.Len(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the cache is full", func() {
			var evicted []cache.Key
			c := cache.NewInMemoryCache(
				cache.WithMaxSize(2),
				cache.WithEvictHook(func(k cache.Key) { evicted = append(evicted, k) }),
			)
			c.Put(ctx, key(1, "a"), 1)
			c.Put(ctx, key(1, "b"), 2)
			c.Get(ctx, key(1, "a"))
			c.Put(ctx, key(1, "c"), 3)

			Convey("Then the least recently used entry is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(ctx, key(1, "b"))
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, key(1, "a"))
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, key(1, "c"))
				So(ok, ShouldBeTrue)
				So(evicted, ShouldResemble, []cache.Key{key(1, "b")})
			})

			Convey("And a rewritten entry counts as used", func() {
				c.Put(ctx, key(1, "a"), 10)
				c.Put(ctx, key(1, "d"), 4)

				So(evicted, ShouldResemble, []cache.Key{key(1, "b"), key(1, "c")})
				v, ok := c.Get(ctx, key(1, "a"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 10)
			})
		})

		Convey("When a newer generation is stored", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, key(1, "a"), "old")
			c.Put(ctx, key(1, "b"), "old")
			c.Put(ctx, key(2, "a"), "new")

			Convey("Then older entries are gone", func() {
				So(c.Len(), ShouldEqual, 1)
				_, ok := c.Get(ctx, key(1, "b"))
				So(ok, ShouldBeFalse)
				v, ok := c.Get(ctx, key(2, "a"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "new")
			})

			Convey("Then late writes of the old generation are dropped", func() {
				c.Put(ctx, key(1, "c"), "late")
				So(c.Len(), ShouldEqual, 1)
				_, ok := c.Get(ctx, key(1, "c"))
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When purged", func() {
			c := cache.NewInMemoryCache()
			for i := 0; i < 10; i++ {
				c.Put(ctx, key(3, fmt.Sprintf("v%d", i)), i)
			}
			c.Purge(ctx)

			Convey("Then it is empty and still usable", func() {
				So(c.Len(), ShouldEqual, 0)
				_, ok := c.Get(ctx, key(3, "v0"))
				So(ok, ShouldBeFalse)
				c.Put(ctx, key(3, "v0"), 0)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When unbounded", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(-1))
			for i := 0; i < 1000; i++ {
				c.Put(ctx, key(1, fmt.Sprintf("v%d", i)), i)
			}
			So(c.Len(), ShouldEqual, 1000)
		})

		Convey("When used concurrently", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(64))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						k := key(uint64(1+i/100), fmt.Sprintf("g%d-%d", g, i%10))
						c.Put(ctx, k, i)
						c.Get(ctx, k)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(c.Len(), ShouldBeLessThanOrEqualTo, 64)
			})
		})
	})
}

func TestKeyString(t *testing.T) {
	Convey("Given cache keys", t, func() {
		So(cache.Key{Generation: 4, View: "overview"}.String(), ShouldEqual, "4/overview")
		So(cache.Key{Generation: 4, View: "global", Query: "noc=FRA"}.String(), ShouldEqual, "4/global?noc=FRA")
	})
}
