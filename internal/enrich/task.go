// Package enrich implements the job position enrichment task: the state
// machine that takes a PENDING record through extraction and enrichment
// to COMPLETED or FAILED.
package enrich

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/position-enricher/internal/db"
	"github.com/jonathan/position-enricher/internal/llm"
)

// DefaultAgentTimeout bounds the agent invocation. The agent performs
// its own search and fetch calls and can take tens of seconds.
const DefaultAgentTimeout = 120 * time.Second

// statusWriteTimeout bounds the FAILED status write on the failure path.
const statusWriteTimeout = 10 * time.Second

// Store is the record-store surface the task needs.
type Store interface {
	ClaimForProcessing(ctx context.Context, id uuid.UUID) (*db.PositionInput, error)
	CompleteEnrichment(ctx context.Context, id uuid.UUID, update db.EnrichmentUpdate) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// Extractor is the agent boundary. Tests mock this; the live
// implementation is *llm.Agent.
type Extractor interface {
	ExtractFromURL(ctx context.Context, jobURL, companyHint string) (*llm.ExtractionResult, error)
	ExtractFromText(ctx context.Context, rawText, companyHint string) (*llm.ExtractionResult, error)
}

// ReachabilityChecker gates discovered URLs before they are persisted.
type ReachabilityChecker interface {
	Reachable(ctx context.Context, url string) bool
}

// Options configures a Task.
type Options struct {
	AgentTimeout time.Duration
	Verbose      bool
}

// Task is one enrichment unit of work, safe for concurrent Run calls on
// distinct record ids. The design assumes no two concurrent attempts
// target the same id; that is the queue's responsibility.
type Task struct {
	store   Store
	agent   Extractor
	checker ReachabilityChecker
	opts    Options
}

// New creates an enrichment task.
func New(store Store, agent Extractor, checker ReachabilityChecker, opts Options) *Task {
	if opts.AgentTimeout <= 0 {
		opts.AgentTimeout = DefaultAgentTimeout
	}
	return &Task{store: store, agent: agent, checker: checker, opts: opts}
}

// Run executes one enrichment attempt for the given record id:
// claim (load + mark PROCESSING in one statement), extract, gate the
// discovered URLs, persist everything in a single completing update.
// Fatal errors mark the record FAILED and are returned so the task
// runner's retry policy can re-invoke the whole attempt from the top.
func (t *Task) Run(ctx context.Context, id uuid.UUID) error {
	input, err := t.store.ClaimForProcessing(ctx, id)
	if err != nil {
		// Not found or unreadable: nothing was marked, nothing to unwind.
		return err
	}

	result, err := t.extract(ctx, input)
	if err != nil {
		return t.fail(ctx, id, err)
	}
	if result == nil {
		return t.fail(ctx, id, fmt.Errorf("extraction agent returned no result"))
	}

	update := db.EnrichmentUpdate{
		CompanyName:    result.CompanyName,
		CompanyLogo:    result.CompanyLogo,
		CompanyWebsite: result.CompanyWebsite,
		JobTitle:       result.JobTitle,
		JobDescription: result.JobDescription,
		SalaryRange:    result.SalaryRange,
	}
	t.gateURLs(ctx, id, &update)

	if err := t.store.CompleteEnrichment(ctx, id, update); err != nil {
		return t.fail(ctx, id, err)
	}

	if t.opts.Verbose {
		log.Printf("[enrich] position %s completed (company=%q)", id, update.CompanyName)
	}
	return nil
}

// extract dispatches to the correct agent entry point. A job URL selects
// URL mode; otherwise the pasted description is used. The modes are
// mutually exclusive by construction.
func (t *Task) extract(ctx context.Context, input *db.PositionInput) (*llm.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.opts.AgentTimeout)
	defer cancel()

	hint := ""
	if input.CompanyNameHint != nil {
		hint = *input.CompanyNameHint
	}

	if input.JobURL != nil && *input.JobURL != "" {
		return t.agent.ExtractFromURL(ctx, *input.JobURL, hint)
	}
	if input.RawJobDescription != nil && *input.RawJobDescription != "" {
		return t.agent.ExtractFromText(ctx, *input.RawJobDescription, hint)
	}
	return nil, fmt.Errorf("record has neither job_url nor raw_job_description")
}

// gateURLs verifies the discovered website and logo independently and in
// parallel. An unreachable URL demotes only its own field to null; it is
// an expected, non-fatal outcome.
func (t *Task) gateURLs(ctx context.Context, id uuid.UUID, update *db.EnrichmentUpdate) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if update.CompanyWebsite != nil && !t.checker.Reachable(gctx, *update.CompanyWebsite) {
			if t.opts.Verbose {
				log.Printf("[enrich] position %s: website %s unreachable, dropping", id, *update.CompanyWebsite)
			}
			update.CompanyWebsite = nil
		}
		return nil
	})
	g.Go(func() error {
		if update.CompanyLogo != nil && !t.checker.Reachable(gctx, *update.CompanyLogo) {
			if t.opts.Verbose {
				log.Printf("[enrich] position %s: logo %s unreachable, dropping", id, *update.CompanyLogo)
			}
			update.CompanyLogo = nil
		}
		return nil
	})

	_ = g.Wait()
}

// fail records the FAILED status and propagates the original error so
// the caller's retry policy governs further attempts. The status write
// runs on a detached context: the attempt's deadline may already have
// expired, and the record must not stay in PROCESSING.
func (t *Task) fail(ctx context.Context, id uuid.UUID, cause error) error {
	log.Printf("[enrich] position %s failed: %v", id, cause)
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()
	if err := t.store.MarkFailed(statusCtx, id); err != nil {
		log.Printf("[enrich] position %s: could not record FAILED status: %v", id, err)
	}
	return cause
}
