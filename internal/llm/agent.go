package llm

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// PageFetcher backs the agent's fetch_page_text tool. The fetch client
// satisfies this; tests substitute fakes.
type PageFetcher interface {
	PageText(ctx context.Context, url string) (string, error)
}

// Agent drives the two-phase extraction conversation with Gemini.
// It is the dominant cost and latency contributor of an enrichment
// attempt: callers should wrap invocations in their own deadline.
type Agent struct {
	client  *genai.Client
	config  *Config
	fetcher PageFetcher
	verbose bool
}

// NewAgent creates an extraction agent. The fetcher may be nil, in which
// case the fetch tool reports failure to the model and extraction relies
// on search alone.
func NewAgent(ctx context.Context, config *Config, apiKey string, fetcher PageFetcher, verbose bool) (*Agent, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Agent{
		client:  client,
		config:  config,
		fetcher: fetcher,
		verbose: verbose,
	}, nil
}

// ExtractFromURL runs both agent phases against a job posting URL.
func (a *Agent) ExtractFromURL(ctx context.Context, jobURL, companyHint string) (*ExtractionResult, error) {
	return a.run(ctx, buildURLPrompt(jobURL, companyHint))
}

// ExtractFromText runs both agent phases against pasted posting text.
func (a *Agent) ExtractFromText(ctx context.Context, rawText, companyHint string) (*ExtractionResult, error) {
	return a.run(ctx, buildTextPrompt(rawText, companyHint))
}

// fetchPageTool exposes the text acquisition layer to the model.
var fetchPageTool = &genai.Tool{
	FunctionDeclarations: []*genai.FunctionDeclaration{{
		Name:        "fetch_page_text",
		Description: "Fetch a web page and return its visible text content with scripts and markup removed.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"url": {
					Type:        genai.TypeString,
					Description: "Absolute URL of the page to fetch",
				},
			},
			Required: []string{"url"},
		},
	}},
}

// searchTool enables grounded web search for listing retrieval and
// website/logo discovery.
var searchTool = &genai.Tool{
	GoogleSearch: &genai.GoogleSearch{},
}

// run executes the agent conversation: send the prompt, serve function
// calls until the model stops asking, then parse the final JSON payload.
func (a *Agent) run(ctx context.Context, prompt string) (*ExtractionResult, error) {
	chat, err := a.client.Chats.Create(ctx, a.config.Model, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(a.config.Temperature),
		Tools:       []*genai.Tool{searchTool, fetchPageTool},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start agent conversation: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("agent call failed: %w", err)
	}

	for round := 0; round < a.config.MaxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			replies = append(replies, a.handleToolCall(ctx, call))
		}

		resp, err = chat.SendMessage(ctx, replies...)
		if err != nil {
			return nil, fmt.Errorf("agent tool round failed: %w", err)
		}
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("agent returned no usable output: %w", err)
	}

	result, err := ParseExtractionResult(cleanJSONBlock(text))
	if err != nil {
		return nil, err
	}

	a.fillLogoPlaceholder(result)
	return result, nil
}

// handleToolCall serves one function call from the model. Tool failures
// are reported back to the model rather than aborting the conversation,
// so it can fall back to search.
func (a *Agent) handleToolCall(ctx context.Context, call *genai.FunctionCall) genai.Part {
	if call.Name != "fetch_page_text" {
		return genai.Part{FunctionResponse: &genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"error": "unknown tool"},
		}}
	}

	urlArg, _ := call.Args["url"].(string)
	if a.verbose {
		log.Printf("[agent] fetch_page_text(%s)", urlArg)
	}

	if a.fetcher == nil {
		return genai.Part{FunctionResponse: &genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"error": "fetching is not available"},
		}}
	}

	text, err := a.fetcher.PageText(ctx, urlArg)
	if err != nil {
		return genai.Part{FunctionResponse: &genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"error": err.Error()},
		}}
	}

	return genai.Part{FunctionResponse: &genai.FunctionResponse{
		Name:     call.Name,
		Response: map[string]any{"text": truncate(text, a.config.MaxToolTextChars)},
	}}
}

// fillLogoPlaceholder enforces the enrichment contract in code: when the
// model found a website but no logo, the favicon service stands in.
func (a *Agent) fillLogoPlaceholder(result *ExtractionResult) {
	if result.CompanyLogo != nil || result.CompanyWebsite == nil {
		return
	}
	domain := domainOf(*result.CompanyWebsite)
	if domain == "" {
		return
	}
	logo := PrimaryFaviconURL(domain)
	result.CompanyLogo = &logo
}
