package observability

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/position-enricher/internal/db"
)

func TestPrintPosition(t *testing.T) {
	company := "Acme"
	title := "Engineer"
	var sb strings.Builder

	printer := NewPrinter(&sb)
	printer.PrintPosition(&db.JobPosition{
		ID:               uuid.New(),
		CompanyName:      &company,
		JobTitle:         &title,
		ProcessingStatus: db.StatusCompleted,
	})

	out := sb.String()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Engineer")
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "(not set)")
}

func TestPrintPosition_Nil(t *testing.T) {
	var sb strings.Builder
	NewPrinter(&sb).PrintPosition(nil)
	assert.Empty(t, sb.String())
}
