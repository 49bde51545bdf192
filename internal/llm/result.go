package llm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/position-enricher/internal/schemas"
	schemadocs "github.com/jonathan/position-enricher/schemas"
)

// ExtractionResult is the structured record produced by the agent.
// CompanyName, JobTitle and JobDescription are mandatory; the remaining
// fields are nullable, where null means "not found", not an error.
type ExtractionResult struct {
	CompanyName    string  `json:"company_name" validate:"required"`
	CompanyLogo    *string `json:"company_logo" validate:"omitempty,url,startswith=https://"`
	CompanyWebsite *string `json:"company_website" validate:"omitempty,url,startswith=https://"`
	JobTitle       string  `json:"job_title" validate:"required"`
	JobDescription string  `json:"job_description" validate:"required"`
	SalaryRange    *string `json:"salary_range"`
}

var resultValidator = validator.New()

// ParseExtractionResult validates raw agent JSON against the embedded
// schema and decodes it. A result violating the schema is an agent
// failure, never returned to callers.
func ParseExtractionResult(jsonText string) (*ExtractionResult, error) {
	if strings.TrimSpace(jsonText) == "" {
		return nil, fmt.Errorf("agent returned empty output")
	}

	if err := schemas.ValidateJSONString(schemadocs.ExtractionResult, jsonText); err != nil {
		return nil, fmt.Errorf("agent output failed schema validation: %w", err)
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, fmt.Errorf("failed to decode agent output: %w", err)
	}

	if err := resultValidator.Struct(&result); err != nil {
		return nil, fmt.Errorf("agent output failed validation: %w", err)
	}

	return &result, nil
}

// PrimaryFaviconURL builds the first-choice favicon-service URL for a
// company domain, used as a logo placeholder when no brand asset was found.
func PrimaryFaviconURL(domain string) string {
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(domain) + "&sz=128"
}

// FallbackFaviconURL builds the second-choice favicon-service URL.
func FallbackFaviconURL(domain string) string {
	return "https://icons.duckduckgo.com/ip3/" + domain + ".ico"
}

// domainOf extracts the registrable host from an absolute URL, without
// the www prefix. Returns "" when the URL cannot be parsed.
func domainOf(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}
