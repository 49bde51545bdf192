// Package llm implements the extraction agent: a tool-augmented Gemini
// call that turns a job posting URL or raw text into a structured,
// schema-validated record.
package llm

// Config holds model settings for the extraction agent.
type Config struct {
	// Model is the Gemini model name used for both agent phases.
	Model string
	// Temperature is kept low for consistent structured output.
	Temperature float32
	// MaxToolRounds caps the function-calling loop. The prompt bounds
	// search navigation to 3 actions; this is the hard stop.
	MaxToolRounds int
	// MaxToolTextChars truncates fetched page text before it is fed
	// back to the model.
	MaxToolTextChars int
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:            "gemini-2.5-flash",
		Temperature:      0.1,
		MaxToolRounds:    8,
		MaxToolTextChars: 60000,
	}
}
