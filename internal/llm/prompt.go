package llm

import (
	"fmt"
	"strings"
)

// buildURLPrompt builds the agent instructions for URL-mode extraction.
func buildURLPrompt(jobURL, companyHint string) string {
	var sb strings.Builder

	writePreamble(&sb, companyHint)

	sb.WriteString("PHASE 1 - EXTRACTION:\n")
	sb.WriteString(fmt.Sprintf("The job posting is at this URL: %s\n", jobURL))
	sb.WriteString("Use web search to retrieve the listing content. Use at most 3 navigation actions.\n")
	sb.WriteString("If search does not surface the listing content, call the fetch_page_text tool exactly once with the URL above and extract from the returned text.\n\n")

	writeExtractionRules(&sb)
	writeEnrichmentPhase(&sb)
	writeOutputContract(&sb)

	return sb.String()
}

// buildTextPrompt builds the agent instructions for description-mode
// extraction. No fetching happens in phase 1; the text is the source.
func buildTextPrompt(rawText, companyHint string) string {
	var sb strings.Builder

	writePreamble(&sb, companyHint)

	sb.WriteString("PHASE 1 - EXTRACTION:\n")
	sb.WriteString("Extract directly from the job posting text below. Do not fetch anything in this phase.\n\n")

	writeExtractionRules(&sb)
	writeEnrichmentPhase(&sb)
	writeOutputContract(&sb)

	sb.WriteString("\nJob posting text:\n\"\"\"\n")
	sb.WriteString(rawText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

func writePreamble(sb *strings.Builder, companyHint string) {
	sb.WriteString("You are an expert job posting analyst. You work in two phases and then return a single JSON object.\n\n")
	if companyHint != "" {
		sb.WriteString(fmt.Sprintf("Hint: the hiring company is probably \"%s\". Use this only to disambiguate; trust the posting itself when they conflict.\n\n", companyHint))
	}
}

func writeExtractionRules(sb *strings.Builder) {
	sb.WriteString("Extract:\n")
	sb.WriteString("- company_name: the hiring entity. NEVER the job board or portal hosting the listing (not LinkedIn, Indeed, Greenhouse, Lever, etc.).\n")
	sb.WriteString("- job_title: the title of the position as listed.\n")
	sb.WriteString("- job_description: the full description reformatted as markdown. Preserve headings and lists.\n")
	sb.WriteString("- salary_range: the salary or compensation exactly as listed, or null if absent. Do not estimate.\n\n")
}

func writeEnrichmentPhase(sb *strings.Builder) {
	sb.WriteString("PHASE 2 - ENRICHMENT (always perform this phase, even if phase 1 was complete):\n")
	sb.WriteString("- company_website: prefer a URL already present in the source text; otherwise search the web for the company's official homepage. ")
	sb.WriteString("It must be the company's own primary domain with an https scheme - never a job portal, aggregator, or social media profile.\n")
	sb.WriteString("- company_logo: search the web for an official logo or brand/press asset URL. ")
	sb.WriteString("If none can be found, construct a favicon URL from the company domain: ")
	sb.WriteString("https://www.google.com/s2/favicons?domain=<domain>&sz=128 first, or https://icons.duckduckgo.com/ip3/<domain>.ico as a second choice.\n")
	sb.WriteString("- Set company_website or company_logo to null only if no URL can be found or constructed at all.\n\n")
}

func writeOutputContract(sb *strings.Builder) {
	sb.WriteString("Return ONLY a JSON object with this exact structure, no markdown, no explanation:\n")
	sb.WriteString(`{
  "company_name": "string (required)",
  "company_logo": "https URL or null",
  "company_website": "https URL or null",
  "job_title": "string (required)",
  "job_description": "markdown string (required)",
  "salary_range": "string or null"
}
`)
}
