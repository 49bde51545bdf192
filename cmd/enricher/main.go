// Package main provides the entry point for the job position enrichment CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enricher",
	Short: "Job position enrichment pipeline",
	Long:  "Enricher turns raw job posting URLs or text into normalized position records: company name, logo, website, title, cleaned description and salary range, produced by an LLM agent with live web access.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
