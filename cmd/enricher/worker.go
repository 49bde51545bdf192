package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/position-enricher/internal/db"
	"github.com/jonathan/position-enricher/internal/runner"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background enrichment worker",
	Long:  "Poll the task queue for due enrichment tasks and process them one at a time, retrying failures with exponential backoff. Runs until interrupted.",
	RunE:  runWorker,
}

var (
	workerConfigPath string
	workerVerbose    bool
)

func init() {
	workerCmd.Flags().StringVar(&workerConfigPath, "config", "", "Path to config.json file")
	workerCmd.Flags().BoolVarP(&workerVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(workerConfigPath, workerVerbose)
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

	worker := runner.New(database, task, runner.Options{
		PollInterval: cfg.PollInterval(),
		TaskTimeout:  cfg.TaskTimeout(),
		MaxAttempts:  cfg.MaxAttempts,
		Verbose:      cfg.Verbose,
	})

	fmt.Fprintf(os.Stdout, "Worker started (poll interval %s, max attempts %d)\n", cfg.PollInterval(), cfg.MaxAttempts)
	worker.Run(ctx)
	fmt.Fprintln(os.Stdout, "Worker stopped")
	return nil
}
