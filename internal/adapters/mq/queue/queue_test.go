package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/medalboard/internal/domain/cache"
)

func job(view string) Job {
	return Job{
		Key:     cache.Key{Generation: 1, View: view},
		Compute: func(context.Context) (any, error) { return view, nil },
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("overview")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Key.View != "overview" {
		t.Errorf("expected overview, got %v", got.Key)
	}
	v, err := got.Compute(ctx)
	if err != nil || v != "overview" {
		t.Errorf("unexpected compute result %v, %v", v, err)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("a")) || !q.Enqueue(ctx, job("b")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("c")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	if n := q.Drain(ctx); n != 2 {
		t.Errorf("expected 2 drained jobs, got %d", n)
	}
	if !q.Enqueue(ctx, job("c")) {
		t.Error("expected enqueue to succeed after drain")
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, job("a")) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	const producers, perProducer = 10, 100

	var consumed atomic.Int64
	for i := 0; i < 4; i++ {
		go func() {
			for range q.Dequeue(ctx) {
				consumed.Add(1)
			}
		}()
	}

	done := make(chan struct{}, producers)
	for i := 0; i < producers; i++ {
		go func(id int) {
			for j := 0; j < perProducer; j++ {
				for !q.Enqueue(ctx, job(fmt.Sprintf("view-%d-%d", id, j))) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < producers; i++ {
		<-done
	}

	deadline := time.Now().Add(time.Second)
	for consumed.Load() < producers*perProducer && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := consumed.Load(); got != producers*perProducer {
		t.Errorf("expected %d consumed jobs, got %d", producers*perProducer, got)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("a")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, job("b")) {
		t.Error("expected enqueue to fail after closing")
	}

	// pending jobs are still delivered before the channel closes
	jobs := q.Dequeue(ctx)
	timeout := time.After(100 * time.Millisecond)
	var delivered int
	for {
		select {
		case _, ok := <-jobs:
			if !ok {
				if delivered != 1 {
					t.Errorf("expected 1 delivered job, got %d", delivered)
				}
				if err := q.Close(); !errors.Is(err, ErrClosed) {
					t.Errorf("expected ErrClosed on second close, got %v", err)
				}
				return
			}
			delivered++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
