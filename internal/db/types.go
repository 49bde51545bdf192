package db

import (
	"time"

	"github.com/google/uuid"
)

// Processing status values for a job position record. The status is
// monotonic within one enrichment attempt: PENDING (or a retried FAILED)
// moves to PROCESSING, then to exactly one of COMPLETED or FAILED.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// JobPosition is the persisted record the enrichment task owns while
// processing. The client creates it with either a job URL or pasted
// description text; enrichment fills in everything else.
type JobPosition struct {
	ID                uuid.UUID `json:"id"`
	JobURL            *string   `json:"job_url,omitempty"`
	RawJobDescription *string   `json:"raw_job_description,omitempty"`
	CompanyNameHint   *string   `json:"company_name_hint,omitempty"`
	CompanyName       *string   `json:"company_name,omitempty"`
	CompanyLogo       *string   `json:"company_logo,omitempty"`
	CompanyWebsite    *string   `json:"company_website,omitempty"`
	JobTitle          *string   `json:"job_title,omitempty"`
	JobDescription    *string   `json:"job_description,omitempty"`
	SalaryRange       *string   `json:"salary_range,omitempty"`
	ProcessingStatus  string    `json:"processing_status"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PositionInput is the slice of a record the enrichment task reads:
// exactly one of JobURL and RawJobDescription selects the input mode.
type PositionInput struct {
	JobURL            *string
	RawJobDescription *string
	CompanyNameHint   *string
}

// EnrichmentUpdate carries the enrichment fields that are written
// together in the single completing update.
type EnrichmentUpdate struct {
	CompanyName    string
	CompanyLogo    *string
	CompanyWebsite *string
	JobTitle       string
	JobDescription string
	SalaryRange    *string
}
