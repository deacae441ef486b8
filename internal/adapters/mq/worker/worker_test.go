package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/medalboard/internal/adapters/mq/queue"
	"github.com/okian/medalboard/internal/adapters/mq/worker"
	"github.com/okian/medalboard/internal/domain/cache"
	logging "github.com/okian/medalboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockStore struct {
	mu     sync.Mutex
	values map[cache.Key]any
}

func newMockStore() *mockStore {
	return &mockStore{values: make(map[cache.Key]any)}
}

func (ms *mockStore) Put(_ context.Context, key cache.Key, value any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[key] = value
}

func (ms *mockStore) get(key cache.Key) (any, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.values[key]
	return v, ok
}

func (ms *mockStore) len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.values)
}

func key(view string) cache.Key { return cache.Key{Generation: 1, View: view} }

func constant(v any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) { return v, nil }
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		store := newMockStore()
		w := worker.NewInMemoryWorker(q, store, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job computes a view", func() {
			q.jobs <- queue.Job{Key: key("overview"), Compute: constant(42)}

			convey.Convey("Then the value is stored under its key", func() {
				convey.So(eventually(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
				v, ok := store.get(key("overview"))
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When a job fails", func() {
			q.jobs <- queue.Job{Key: key("global"), Compute: func(context.Context) (any, error) {
				return nil, errors.New("boom")
			}}
			q.jobs <- queue.Job{Key: key("nil")}

			convey.Convey("Then nothing is stored and both failures are counted", func() {
				convey.So(eventually(func() bool { return w.Failed() == 2 }), convey.ShouldBeTrue)
				convey.So(store.len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the job outlives its timeout", func() {
			slow := worker.NewInMemoryWorker(q, store, worker.WithJobTimeout(10*time.Millisecond))
			sctx, scancel := context.WithCancel(context.Background())
			defer scancel()
			cancel()
			time.Sleep(10 * time.Millisecond)
			go slow.Run(sctx)

			q.jobs <- queue.Job{Key: key("slow"), Compute: func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}}

			convey.Convey("Then the job is cancelled", func() {
				convey.So(eventually(func() bool { return slow.Failed() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(200))
		store := newMockStore()
		pool := worker.NewPool(4, q, store)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When many producers enqueue jobs", func() {
			const producers, perProducer = 5, 20
			var wg sync.WaitGroup
			for i := 0; i < producers; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for j := 0; j < perProducer; j++ {
						view := fmt.Sprintf("view-%d-%d", id, j)
						for !q.Enqueue(ctx, queue.Job{Key: key(view), Compute: constant(view)}) {
							time.Sleep(time.Millisecond)
						}
					}
				}(i)
			}
			wg.Wait()

			convey.Convey("Then every job is stored", func() {
				convey.So(eventually(func() bool { return pool.Processed() == producers*perProducer }), convey.ShouldBeTrue)
				convey.So(store.len(), convey.ShouldEqual, producers*perProducer)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down", func() {
			q.Enqueue(ctx, queue.Job{Key: key("last"), Compute: constant(1)})
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then pending jobs are drained and the queue is closed", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				_, ok := store.get(key("last"))
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}
