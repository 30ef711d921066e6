package dispatch

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO of task IDs.
// It is safe for concurrent Push and Pop from multiple goroutines.
type queue struct {
	mu    sync.Mutex
	items []string
	ready chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

// Push appends id to the tail of the queue. It never blocks.
func (q *queue) Push(id string) {
	q.mu.Lock()
	q.items = append(q.items, id)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// PushFront puts id back at the head of the queue.
func (q *queue) PushFront(id string) {
	q.mu.Lock()
	q.items = append([]string{id}, q.items...)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Pop removes and returns the head of the queue, blocking until an item
// is available. The bool result is false once ctx is done, even when items
// remain.
func (q *queue) Pop(ctx context.Context) (string, bool) {
	for {
		if ctx.Err() != nil {
			return "", false
		}
		q.mu.Lock()
		if len(q.items) > 0 {
			id := q.items[0]
			q.items[0] = ""
			q.items = q.items[1:]
			q.mu.Unlock()
			return id, true
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return "", false
		}
	}
}

// Len returns the number of queued IDs.
func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
