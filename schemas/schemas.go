// Package schemas embeds the JSON Schema documents used to validate
// structured LLM output.
package schemas

import _ "embed"

// ExtractionResult is the schema for the extraction agent's output record.
//
//go:embed extraction_result.schema.json
var ExtractionResult string
