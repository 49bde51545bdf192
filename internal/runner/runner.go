// Package runner provides the polling worker that executes queued
// enrichment tasks with retry and exponential backoff.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/position-enricher/internal/db"
)

// Defaults for the worker loop.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultTaskTimeout  = 300 * time.Second
	DefaultMaxAttempts  = 3
	DefaultBackoffBase  = 30 * time.Second
)

// Store is the queue surface the worker needs.
type Store interface {
	ClaimDueTask(ctx context.Context, lease time.Duration, maxAttempts int) (*db.EnrichmentTask, error)
	CompleteTask(ctx context.Context, id int64) error
	RetryTask(ctx context.Context, id int64, lastError string, nextAvailableAt time.Time) error
	FailTaskPermanently(ctx context.Context, id int64, lastError string) error
}

// Enrichment is the task being scheduled; the live implementation is
// *enrich.Task.
type Enrichment interface {
	Run(ctx context.Context, id uuid.UUID) error
}

// Options configures the worker.
type Options struct {
	PollInterval time.Duration
	TaskTimeout  time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	Verbose      bool
}

func (o *Options) fillDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.TaskTimeout <= 0 {
		o.TaskTimeout = DefaultTaskTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = DefaultBackoffBase
	}
}

// Worker polls the queue and runs due enrichment tasks one at a time.
// Run multiple workers for parallelism; the claim query leases each
// task to a single worker.
type Worker struct {
	store  Store
	task   Enrichment
	opts   Options
	wakeup chan struct{}
}

// New creates a worker.
func New(store Store, task Enrichment, opts Options) *Worker {
	opts.fillDefaults()
	return &Worker{
		store:  store,
		task:   task,
		opts:   opts,
		wakeup: make(chan struct{}, 1),
	}
}

// Wake nudges the worker to poll immediately, e.g. right after an
// enqueue. Safe to call from any goroutine; redundant wakes coalesce.
func (w *Worker) Wake() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

// Run polls for due tasks until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	log.Printf("[runner] worker started (poll=%s, max attempts=%d)", w.opts.PollInterval, w.opts.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[runner] worker stopping: %v", ctx.Err())
			return
		case <-ticker.C:
		case <-w.wakeup:
		}

		// Drain everything currently due before sleeping again.
		for w.processOne(ctx) {
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// processOne claims and executes a single due task. Returns false when
// the queue had nothing due.
func (w *Worker) processOne(ctx context.Context) bool {
	lease := w.opts.TaskTimeout + 30*time.Second
	task, err := w.store.ClaimDueTask(ctx, lease, w.opts.MaxAttempts)
	if err != nil {
		log.Printf("[runner] failed to claim task: %v", err)
		return false
	}
	if task == nil {
		return false
	}

	start := time.Now()
	execErr := w.execute(ctx, task.PositionID)
	elapsed := time.Since(start)

	if execErr == nil {
		if err := w.store.CompleteTask(ctx, task.ID); err != nil {
			log.Printf("[runner] task %d: failed to record completion: %v", task.ID, err)
		}
		if w.opts.Verbose {
			log.Printf("[runner] task %d completed in %s", task.ID, elapsed)
		}
		return true
	}

	attempt := task.RetryCount + 1
	if attempt >= w.opts.MaxAttempts {
		log.Printf("[runner] task %d failed permanently after %d attempts: %v", task.ID, attempt, execErr)
		if err := w.store.FailTaskPermanently(ctx, task.ID, execErr.Error()); err != nil {
			log.Printf("[runner] task %d: failed to record terminal failure: %v", task.ID, err)
		}
		return true
	}

	delay := Backoff(w.opts.BackoffBase, task.RetryCount)
	log.Printf("[runner] task %d attempt %d failed, retrying in %s: %v", task.ID, attempt, delay, execErr)
	if err := w.store.RetryTask(ctx, task.ID, execErr.Error(), time.Now().Add(delay)); err != nil {
		log.Printf("[runner] task %d: failed to schedule retry: %v", task.ID, err)
	}
	return true
}

// execute runs the enrichment under the task timeout. A hung attempt is
// abandoned when the deadline fires; the record keeps whatever status
// the task managed to write.
func (w *Worker) execute(ctx context.Context, positionID uuid.UUID) error {
	taskCtx, cancel := context.WithTimeout(ctx, w.opts.TaskTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.task.Run(taskCtx, positionID)
	}()

	select {
	case <-taskCtx.Done():
	case err := <-done:
		if taskCtx.Err() != context.DeadlineExceeded {
			return err
		}
	}
	if taskCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("task timed out after %s", w.opts.TaskTimeout)
	}
	return taskCtx.Err()
}

// Backoff returns the delay before the next attempt: base doubled for
// every prior failed attempt.
func Backoff(base time.Duration, retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	return base << uint(retryCount)
}
