package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["enrich"])
	assert.True(t, names["worker"])
	assert.True(t, names["queue"])
}

func TestEnrichCommand_Flags(t *testing.T) {
	require.NotNil(t, enrichCmd.Flags().Lookup("id"))
	require.NotNil(t, enrichCmd.Flags().Lookup("config"))
	require.NotNil(t, enrichCmd.Flags().Lookup("verbose"))

	// --id is required
	annotations := enrichCmd.Flags().Lookup("id").Annotations
	assert.Contains(t, annotations, "cobra_annotation_bash_completion_one_required_flag")
}

func TestQueueCommand_InvalidID(t *testing.T) {
	queueID = "not-a-uuid"
	err := runQueue(queueCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position id")
}

func TestEnrichCommand_InvalidID(t *testing.T) {
	enrichID = "also-not-a-uuid"
	err := runEnrich(enrichCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position id")
}
