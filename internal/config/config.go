// Package config provides explicit configuration for the enrichment
// worker and CLI. Everything is passed into constructors; nothing reads
// the environment at call time, which keeps tests isolated and allows
// several configurations in one process.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultScrapingEndpoint is the scraping proxy used when a blocked or
// failing direct fetch needs a fallback.
const DefaultScrapingEndpoint = "https://api.scrape.do/"

// Config holds all settings for the enrichment pipeline. All fields are
// optional in the JSON file; missing values use defaults or come from
// the environment.
type Config struct {
	DatabaseURL      string `json:"database_url,omitempty"`
	GeminiAPIKey     string `json:"gemini_api_key,omitempty"`
	ScrapingToken    string `json:"web_scraping_token,omitempty"`
	ScrapingEndpoint string `json:"web_scraping_endpoint,omitempty"`
	Model            string `json:"model,omitempty"`

	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`
	AgentTimeoutSeconds int `json:"agent_timeout_seconds,omitempty"`
	TaskTimeoutSeconds  int `json:"task_timeout_seconds,omitempty"`
	MaxAttempts         int `json:"max_attempts,omitempty"`
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`

	UseBrowser bool `json:"use_browser,omitempty"`
	Verbose    bool `json:"verbose,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		ScrapingEndpoint:    DefaultScrapingEndpoint,
		FetchTimeoutSeconds: 15,
		AgentTimeoutSeconds: 120,
		TaskTimeoutSeconds:  300,
		MaxAttempts:         3,
		PollIntervalSeconds: 5,
	}
}

// Load reads configuration from a JSON file, applies environment
// overrides for credentials, and fills remaining gaps with defaults.
// An empty path skips the file and uses environment plus defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults(Default())
	return cfg, nil
}

// applyEnv overlays credential-type settings from the environment.
// File values win; the environment only fills what is missing.
func (c *Config) applyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.ScrapingToken == "" {
		c.ScrapingToken = os.Getenv("WEB_SCRAPING_TOKEN")
	}
	if c.ScrapingEndpoint == "" {
		c.ScrapingEndpoint = os.Getenv("WEB_SCRAPING_ENDPOINT")
	}
}

// fillDefaults fills zero-valued fields from defaults.
func (c *Config) fillDefaults(defaults *Config) {
	if c.ScrapingEndpoint == "" {
		c.ScrapingEndpoint = defaults.ScrapingEndpoint
	}
	if c.FetchTimeoutSeconds == 0 {
		c.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if c.AgentTimeoutSeconds == 0 {
		c.AgentTimeoutSeconds = defaults.AgentTimeoutSeconds
	}
	if c.TaskTimeoutSeconds == 0 {
		c.TaskTimeoutSeconds = defaults.TaskTimeoutSeconds
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = defaults.PollIntervalSeconds
	}
}

// Validate checks value ranges. Required credentials are checked by the
// commands that need them, after flag merging.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config error: 'max_attempts' must be at least 1")
	}
	if c.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be positive")
	}
	if c.AgentTimeoutSeconds < 1 {
		return fmt.Errorf("config error: 'agent_timeout_seconds' must be positive")
	}
	if c.TaskTimeoutSeconds < c.AgentTimeoutSeconds {
		return fmt.Errorf("config error: 'task_timeout_seconds' must cover the agent timeout")
	}
	if c.PollIntervalSeconds < 1 {
		return fmt.Errorf("config error: 'poll_interval_seconds' must be positive")
	}
	return nil
}

// FetchTimeout returns the direct fetch deadline.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// AgentTimeout returns the per-invocation agent deadline.
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

// TaskTimeout returns the overall task ceiling.
func (c *Config) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}

// PollInterval returns the worker poll period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
