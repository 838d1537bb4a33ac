// Package worker runs queued dataset reloads one at a time.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/queue"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// Job states reported by Status.
const (
	StateIdle   = "idle"
	StateOK     = "ok"
	StateFailed = "failed"
)

// Reloader rebuilds and publishes the dataset.
type Reloader interface {
	Reload(ctx context.Context, seed *int64) (service.ReloadResult, error)
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Status describes the last finished job.
type Status struct {
	JobID      string                `json:"job_id,omitempty"`
	State      string                `json:"state"`
	Error      string                `json:"error,omitempty"`
	Result     *service.ReloadResult `json:"result,omitempty"`
	FinishedAt *time.Time            `json:"finished_at,omitempty"`
	Processed  int64                 `json:"processed"`
	Failed     int64                 `json:"failed"`
}

// Worker processes reload jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown waits for the job in flight to finish.
	Shutdown(ctx context.Context) error

	// Status returns the outcome of the last job.
	Status() Status
}

// InMemoryWorker applies reload jobs in arrival order.
type InMemoryWorker struct {
	queue    Queue
	reloader Reloader
	name     string
	timeout  time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	mu     sync.RWMutex
	status Status

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from q.
func NewInMemoryWorker(q Queue, r Reloader, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		reloader: r,
		name:     "reload-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		status:   Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "reload failed", logger.String("job", job.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the loop to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Status returns the outcome of the last job.
func (w *InMemoryWorker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	res, err := w.reloader.Reload(ctx, job.Seed)
	elapsed := float64(time.Since(start).Milliseconds())
	finished := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.JobID = job.ID
	w.status.FinishedAt = &finished
	if err != nil {
		w.status.State = StateFailed
		w.status.Error = err.Error()
		w.status.Result = nil
		w.status.Failed++
		metrics.RecordReloadJob(StateFailed, elapsed)
		metrics.RecordErrorByComponent("worker", "reload_error")
		return fmt.Errorf("reload job %s: %w", job.ID, err)
	}

	w.status.State = StateOK
	w.status.Error = ""
	w.status.Result = &res
	w.status.Processed++
	metrics.RecordReloadJob(StateOK, elapsed)
	w.logger.Info(ctx, "reload applied",
		logger.String("job", job.ID),
		logger.String("source", res.Source),
		logger.Int("skills", res.Skills),
		logger.Float64("ms", elapsed))
	return nil
}
