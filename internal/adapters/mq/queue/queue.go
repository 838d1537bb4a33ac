// Package queue holds pending dataset reload jobs.
//
// Enqueue never blocks: a full or closed queue rejects the job so the
// caller can answer the client straight away.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

const defaultCapacity = 8

// Rejection reasons reported by Enqueue.
const (
	ReasonClosed   = "closed"
	ReasonFull     = "full"
	ReasonCanceled = "canceled"
)

// Job asks for the dataset to be rebuilt from its source.
type Job struct {
	ID          string
	Seed        *int64 // nil keeps the configured seed
	RequestedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns ErrClosed, ErrFull or the context error
	// when the job was not queued.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns a channel of jobs. It is closed once the queue is
	// closed and drained, or when ctx is done.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of pending jobs.
	Len() int

	// Close stops accepting jobs.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue holding at most capacity jobs.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateReloadQueue(0, q.capacity)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordReloadRejected(ReasonClosed)
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordReloadRejected(ReasonCanceled)
		return err
	}

	select {
	case q.jobs <- j:
		metrics.RecordReloadEnqueued()
		metrics.UpdateReloadQueue(len(q.jobs), q.capacity)
		return nil
	default:
		metrics.RecordReloadRejected(ReasonFull)
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that receives jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-q.jobs:
				if !ok {
					return
				}
				metrics.UpdateReloadQueue(len(q.jobs), q.capacity)
				select {
				case out <- j:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity returns the maximum number of pending jobs.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting jobs. Jobs already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
