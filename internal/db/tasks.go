package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Task status values for the enrichment queue.
const (
	TaskPending   = "pending"
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// EnrichmentTask is one queued invocation of the enrichment pipeline
// for a position record.
type EnrichmentTask struct {
	ID              int64
	PositionID      uuid.UUID
	Status          string
	RetryCount      int
	NextAvailableAt *time.Time
	LockedUntil     *time.Time
	LastError       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EnqueueTask inserts a pending enrichment task for a position.
func (db *DB) EnqueueTask(ctx context.Context, positionID uuid.UUID) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enrichment_tasks (position_id, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		positionID, TaskPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue task for %s: %w", positionID, err)
	}
	return id, nil
}

// ClaimDueTask leases the oldest due task to the calling worker. A task
// is due when it is pending, failed with attempts left and its backoff
// window elapsed, or running with an expired lease (a crashed worker
// never released it). Returns nil when nothing is due.
func (db *DB) ClaimDueTask(ctx context.Context, lease time.Duration, maxAttempts int) (*EnrichmentTask, error) {
	var task EnrichmentTask
	err := db.pool.QueryRow(ctx,
		`UPDATE enrichment_tasks
		 SET status = $1, locked_until = NOW() + make_interval(secs => $2), updated_at = NOW()
		 WHERE id = (
		     SELECT id FROM enrichment_tasks
		     WHERE status IN ($3, $4, $1)
		       AND retry_count < $5
		       AND (next_available_at IS NULL OR next_available_at <= NOW())
		       AND (locked_until IS NULL OR locked_until < NOW())
		     ORDER BY created_at
		     LIMIT 1
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, position_id, status, retry_count`,
		TaskRunning, lease.Seconds(), TaskPending, TaskFailed, maxAttempts,
	).Scan(&task.ID, &task.PositionID, &task.Status, &task.RetryCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim task: %w", err)
	}
	return &task, nil
}

// CompleteTask marks a task done and releases its lease.
func (db *DB) CompleteTask(ctx context.Context, id int64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE enrichment_tasks
		 SET status = $1, locked_until = NULL, updated_at = NOW()
		 WHERE id = $2`,
		TaskCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete task %d: %w", id, err)
	}
	return nil
}

// RetryTask records a failed attempt and schedules the next one.
func (db *DB) RetryTask(ctx context.Context, id int64, lastError string, nextAvailableAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE enrichment_tasks
		 SET status = $1, retry_count = retry_count + 1, last_error = $2,
		     next_available_at = $3, locked_until = NULL, updated_at = NOW()
		 WHERE id = $4`,
		TaskFailed, lastError, nextAvailableAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to schedule retry for task %d: %w", id, err)
	}
	return nil
}

// FailTaskPermanently records a failed attempt with no further retries.
func (db *DB) FailTaskPermanently(ctx context.Context, id int64, lastError string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE enrichment_tasks
		 SET status = $1, retry_count = retry_count + 1, last_error = $2,
		     next_available_at = NULL, locked_until = NULL, updated_at = NOW()
		 WHERE id = $3`,
		TaskFailed, lastError, id,
	)
	if err != nil {
		return fmt.Errorf("failed to fail task %d: %w", id, err)
	}
	return nil
}
