package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/position-enricher/internal/db"
	"github.com/jonathan/position-enricher/internal/observability"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single job position record",
	Long:  "Claim the given PENDING record, run the extraction agent against its URL or raw text, verify returned links, and persist the enriched result. The record ends up COMPLETED or FAILED.",
	RunE:  runEnrich,
}

var (
	enrichConfigPath string
	enrichID         string
	enrichVerbose    bool
)

func init() {
	enrichCmd.Flags().StringVar(&enrichConfigPath, "config", "", "Path to config.json file")
	enrichCmd.Flags().StringVar(&enrichID, "id", "", "UUID of the job position to enrich (required)")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print detailed debug information")

	enrichCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	positionID, err := uuid.Parse(enrichID)
	if err != nil {
		return fmt.Errorf("invalid position id %q: %w", enrichID, err)
	}

	cfg, err := loadConfig(enrichConfigPath, enrichVerbose)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	task, err := buildEnrichment(ctx, cfg, database)
	if err != nil {
		return err
	}

	runErr := task.Run(ctx, positionID)

	// Show the final state of the record either way; a failed run still
	// leaves a FAILED status worth seeing.
	if pos, getErr := database.GetPosition(ctx, positionID); getErr == nil {
		observability.NewPrinter(os.Stdout).PrintPosition(pos)
	}

	if runErr != nil {
		return fmt.Errorf("enrichment failed: %w", runErr)
	}

	fmt.Fprintf(os.Stdout, "Successfully enriched position %s\n", positionID)
	return nil
}
