package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/position-enricher/internal/db"
	"github.com/jonathan/position-enricher/internal/llm"
)

type mockStore struct {
	input        *db.PositionInput
	claimErr     error
	completed    []db.EnrichmentUpdate
	completeErr  error
	failedCount  int
	failedCtxErr error
}

func (m *mockStore) ClaimForProcessing(_ context.Context, _ uuid.UUID) (*db.PositionInput, error) {
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	return m.input, nil
}

func (m *mockStore) CompleteEnrichment(_ context.Context, _ uuid.UUID, update db.EnrichmentUpdate) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.completed = append(m.completed, update)
	return nil
}

func (m *mockStore) MarkFailed(ctx context.Context, _ uuid.UUID) error {
	m.failedCount++
	m.failedCtxErr = ctx.Err()
	return nil
}

type mockAgent struct {
	result    *llm.ExtractionResult
	err       error
	urlCalls  []string
	textCalls []string
	hints     []string
}

func (m *mockAgent) ExtractFromURL(_ context.Context, jobURL, hint string) (*llm.ExtractionResult, error) {
	m.urlCalls = append(m.urlCalls, jobURL)
	m.hints = append(m.hints, hint)
	return m.result, m.err
}

func (m *mockAgent) ExtractFromText(_ context.Context, rawText, hint string) (*llm.ExtractionResult, error) {
	m.textCalls = append(m.textCalls, rawText)
	m.hints = append(m.hints, hint)
	return m.result, m.err
}

type mockChecker struct {
	unreachable map[string]bool
}

func (m *mockChecker) Reachable(_ context.Context, url string) bool {
	return !m.unreachable[url]
}

func strPtr(s string) *string { return &s }

func sampleResult() *llm.ExtractionResult {
	return &llm.ExtractionResult{
		CompanyName:    "Acme",
		CompanyLogo:    strPtr("https://acme.com/logo.png"),
		CompanyWebsite: strPtr("https://acme.com"),
		JobTitle:       "Engineer",
		JobDescription: "# Role\nBuild things.",
	}
}

func TestRun_URLModeSuccess(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{JobURL: strPtr("https://boards.example.com/123")}}
	agent := &mockAgent{result: sampleResult()}
	task := New(store, agent, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, store.completed, 1)
	update := store.completed[0]
	assert.Equal(t, "Acme", update.CompanyName)
	assert.Equal(t, "Engineer", update.JobTitle)
	require.NotNil(t, update.CompanyWebsite)
	assert.Equal(t, "https://acme.com", *update.CompanyWebsite)
	require.NotNil(t, update.CompanyLogo)
	assert.Nil(t, update.SalaryRange)

	assert.Equal(t, []string{"https://boards.example.com/123"}, agent.urlCalls)
	assert.Empty(t, agent.textCalls, "description mode must not run when a URL is present")
	assert.Zero(t, store.failedCount)
}

func TestRun_UnreachableLogoIsDroppedIndependently(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{JobURL: strPtr("https://boards.example.com/123")}}
	agent := &mockAgent{result: sampleResult()}
	checker := &mockChecker{unreachable: map[string]bool{"https://acme.com/logo.png": true}}
	task := New(store, agent, checker, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, store.completed, 1)
	update := store.completed[0]
	assert.Nil(t, update.CompanyLogo, "unreachable logo must persist as null")
	require.NotNil(t, update.CompanyWebsite, "website must be unaffected by the logo check")
	assert.Equal(t, "Acme", update.CompanyName)
}

func TestRun_UnreachableWebsiteIsDroppedIndependently(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{RawJobDescription: strPtr("hiring text")}}
	agent := &mockAgent{result: sampleResult()}
	checker := &mockChecker{unreachable: map[string]bool{"https://acme.com": true}}
	task := New(store, agent, checker, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.NoError(t, err)

	update := store.completed[0]
	assert.Nil(t, update.CompanyWebsite)
	assert.NotNil(t, update.CompanyLogo)
}

func TestRun_TextModeAgentErrorMarksFailed(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{RawJobDescription: strPtr("pasted description")}}
	agentErr := errors.New("model exploded")
	agent := &mockAgent{err: agentErr}
	task := New(store, agent, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, agentErr, "raw task error must propagate for the runner's retry policy")

	assert.Equal(t, 1, store.failedCount)
	assert.Empty(t, store.completed, "no enrichment fields may be written on failure")
	assert.Equal(t, []string{"pasted description"}, agent.textCalls)
	assert.Empty(t, agent.urlCalls)
}

func TestRun_FailedStatusWriteSurvivesExpiredDeadline(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{RawJobDescription: strPtr("text")}}
	agent := &mockAgent{err: context.DeadlineExceeded}
	task := New(store, agent, &mockChecker{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the runner's ceiling has already fired

	err := task.Run(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 1, store.failedCount)
	assert.NoError(t, store.failedCtxErr, "the FAILED write must not inherit the expired attempt context")
}

func TestRun_NilAgentResultIsFatal(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{RawJobDescription: strPtr("text")}}
	task := New(store, &mockAgent{}, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 1, store.failedCount)
	assert.Empty(t, store.completed)
}

func TestRun_RecordNotFoundWritesNoStatus(t *testing.T) {
	store := &mockStore{claimErr: db.ErrPositionNotFound}
	task := New(store, &mockAgent{}, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.ErrorIs(t, err, db.ErrPositionNotFound)
	assert.Zero(t, store.failedCount, "a missing record has no row to mark FAILED")
	assert.Empty(t, store.completed)
}

func TestRun_NoInputFieldsIsFatal(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{}}
	agent := &mockAgent{result: sampleResult()}
	task := New(store, agent, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Empty(t, agent.urlCalls)
	assert.Empty(t, agent.textCalls)
	assert.Equal(t, 1, store.failedCount)
}

func TestRun_PersistFailureMarksFailed(t *testing.T) {
	store := &mockStore{
		input:       &db.PositionInput{JobURL: strPtr("https://boards.example.com/1")},
		completeErr: errors.New("connection reset"),
	}
	task := New(store, &mockAgent{result: sampleResult()}, &mockChecker{}, Options{})

	err := task.Run(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 1, store.failedCount)
}

func TestRun_CompanyHintIsForwarded(t *testing.T) {
	store := &mockStore{input: &db.PositionInput{
		JobURL:          strPtr("https://boards.example.com/1"),
		CompanyNameHint: strPtr("Acme Inc"),
	}}
	agent := &mockAgent{result: sampleResult()}
	task := New(store, agent, &mockChecker{}, Options{})

	require.NoError(t, task.Run(context.Background(), uuid.New()))
	assert.Equal(t, []string{"Acme Inc"}, agent.hints)
}

func TestRun_SalaryRangePersistedVerbatim(t *testing.T) {
	result := sampleResult()
	result.SalaryRange = strPtr("$120k - $150k")
	store := &mockStore{input: &db.PositionInput{RawJobDescription: strPtr("text")}}
	task := New(store, &mockAgent{result: result}, &mockChecker{}, Options{})

	require.NoError(t, task.Run(context.Background(), uuid.New()))
	require.NotNil(t, store.completed[0].SalaryRange)
	assert.Equal(t, "$120k - $150k", *store.completed[0].SalaryRange)
}
