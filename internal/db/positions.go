package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrPositionNotFound is returned when a record id does not exist.
var ErrPositionNotFound = errors.New("job position not found")

// ClaimForProcessing marks a position PROCESSING and returns its input
// fields in one conditional update. Because load and mark are a single
// statement, a missing id writes nothing and a transient failure cannot
// strand a record in PROCESSING.
func (db *DB) ClaimForProcessing(ctx context.Context, id uuid.UUID) (*PositionInput, error) {
	var input PositionInput
	err := db.pool.QueryRow(ctx,
		`UPDATE job_positions
		 SET processing_status = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING job_url, raw_job_description, company_name_hint`,
		StatusProcessing, id,
	).Scan(&input.JobURL, &input.RawJobDescription, &input.CompanyNameHint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
		}
		return nil, fmt.Errorf("failed to claim position %s: %w", id, err)
	}
	return &input, nil
}

// CompleteEnrichment writes all enrichment fields, the COMPLETED status
// and a refreshed updated_at in one update. Fields are never written
// piecemeal: either this update lands whole, or the record keeps its
// previous values.
func (db *DB) CompleteEnrichment(ctx context.Context, id uuid.UUID, update EnrichmentUpdate) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE job_positions
		 SET company_name = $1,
		     company_logo = $2,
		     company_website = $3,
		     job_title = $4,
		     job_description = $5,
		     salary_range = $6,
		     processing_status = $7,
		     updated_at = NOW()
		 WHERE id = $8`,
		update.CompanyName, update.CompanyLogo, update.CompanyWebsite,
		update.JobTitle, update.JobDescription, update.SalaryRange,
		StatusCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete enrichment for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	return nil
}

// MarkFailed sets the FAILED status and refreshes updated_at. Extracted
// fields are left untouched so a later retry starts from clean input.
func (db *DB) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_positions SET processing_status = $1, updated_at = NOW() WHERE id = $2`,
		StatusFailed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark position %s failed: %w", id, err)
	}
	return nil
}

// GetPosition retrieves a full position record by id.
func (db *DB) GetPosition(ctx context.Context, id uuid.UUID) (*JobPosition, error) {
	var pos JobPosition
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_url, raw_job_description, company_name_hint,
		        company_name, company_logo, company_website,
		        job_title, job_description, salary_range,
		        processing_status, updated_at
		 FROM job_positions WHERE id = $1`,
		id,
	).Scan(&pos.ID, &pos.JobURL, &pos.RawJobDescription, &pos.CompanyNameHint,
		&pos.CompanyName, &pos.CompanyLogo, &pos.CompanyWebsite,
		&pos.JobTitle, &pos.JobDescription, &pos.SalaryRange,
		&pos.ProcessingStatus, &pos.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get position %s: %w", id, err)
	}
	return &pos, nil
}
