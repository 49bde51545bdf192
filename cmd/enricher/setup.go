package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/position-enricher/internal/config"
	"github.com/jonathan/position-enricher/internal/db"
	"github.com/jonathan/position-enricher/internal/enrich"
	"github.com/jonathan/position-enricher/internal/fetch"
	"github.com/jonathan/position-enricher/internal/llm"
)

// loadConfig reads the optional config file, validates it, and checks the
// credentials every enrichment command needs.
func loadConfig(path string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or 'database_url' in the config file)")
	}
	if cfg.Verbose && path != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", path)
	}
	return cfg, nil
}

// buildEnrichment wires the fetch client, Gemini agent and store into an
// enrichment task.
func buildEnrichment(ctx context.Context, cfg *config.Config, database *db.DB) (*enrich.Task, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or 'gemini_api_key' in the config file)")
	}

	client := fetch.NewClient(&fetch.Options{
		Timeout:       cfg.FetchTimeout(),
		ProxyEndpoint: cfg.ScrapingEndpoint,
		ProxyToken:    cfg.ScrapingToken,
		UseBrowser:    cfg.UseBrowser,
		Verbose:       cfg.Verbose,
	})

	agentCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		agentCfg.Model = cfg.Model
	}

	agent, err := llm.NewAgent(ctx, agentCfg, cfg.GeminiAPIKey, client, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	task := enrich.New(database, agent, client, enrich.Options{
		AgentTimeout: cfg.AgentTimeout(),
		Verbose:      cfg.Verbose,
	})
	return task, nil
}
