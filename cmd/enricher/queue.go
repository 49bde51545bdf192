package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/position-enricher/internal/db"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Queue a job position for background enrichment",
	Long:  "Create a pending enrichment task for the given position. A running worker picks it up on its next poll.",
	RunE:  runQueue,
}

var (
	queueConfigPath string
	queueID         string
)

func init() {
	queueCmd.Flags().StringVar(&queueConfigPath, "config", "", "Path to config.json file")
	queueCmd.Flags().StringVar(&queueID, "id", "", "UUID of the job position to queue (required)")

	queueCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	positionID, err := uuid.Parse(queueID)
	if err != nil {
		return fmt.Errorf("invalid position id %q: %w", queueID, err)
	}

	cfg, err := loadConfig(queueConfigPath, false)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	taskID, err := database.EnqueueTask(ctx, positionID)
	if err != nil {
		return fmt.Errorf("failed to queue position: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Queued position %s as task %d\n", positionID, taskID)
	return nil
}
