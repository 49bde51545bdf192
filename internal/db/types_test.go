package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	statuses := []string{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}
	seen := make(map[string]bool)
	for _, s := range statuses {
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "status values must be distinct")
		seen[s] = true
	}
}

func TestJobPositionNullableFields(t *testing.T) {
	pos := JobPosition{ProcessingStatus: StatusPending}

	assert.Nil(t, pos.JobURL)
	assert.Nil(t, pos.RawJobDescription)
	assert.Nil(t, pos.CompanyName)
	assert.Nil(t, pos.SalaryRange)
	assert.Equal(t, StatusPending, pos.ProcessingStatus)
}
