package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestFunctionCalls(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "let me fetch that"},
				{FunctionCall: &genai.FunctionCall{
					Name: "fetch_page_text",
					Args: map[string]any{"url": "https://boards.example.com/1"},
				}},
			}},
		}},
	}

	calls := functionCalls(resp)
	require.Len(t, calls, 1)
	assert.Equal(t, "fetch_page_text", calls[0].Name)

	assert.Nil(t, functionCalls(nil))
	assert.Nil(t, functionCalls(&genai.GenerateContentResponse{}))
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "internal reasoning", Thought: true},
				{Text: `{"a":`},
				{Text: ` 1}`},
			}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)

	_, err = responseText(&genai.GenerateContentResponse{})
	require.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "fetch_page_text"}},
			}},
		}},
	})
	require.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain JSON", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONBlock(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abc", 0))

	long := strings.Repeat("x", 100)
	got := truncate(long, 50)
	assert.True(t, strings.HasSuffix(got, "[truncated]"))
	assert.Contains(t, got, strings.Repeat("x", 50))
}

func TestTruncate_DoesNotSplitRunes(t *testing.T) {
	s := strings.Repeat("é", 40) // 2 bytes per rune
	got := truncate(s, 33)       // boundary lands mid-rune
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "[truncated]"))
	assert.Equal(t, strings.Repeat("é", 16)+"\n[truncated]", got)
}
