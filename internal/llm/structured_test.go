package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Summary string  `json:"summary"`
	Score   float64 `json:"performance_score"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[testPayload](`{"summary":"good week","performance_score":72.5}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "good week", result.Summary)
	assert.Equal(t, 72.5, result.Score)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"summary\":\"fenced\",\"performance_score\":80}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "fenced", result.Summary)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is your report:\n{\"summary\":\"ok\",\"performance_score\":10}\nKeep it up!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"summary":"use {curly} and \"quotes\"","performance_score":1}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `use {curly} and "quotes"`, result.Summary)
}

func TestExtractJSON_CommentsAndTrailingCommas(t *testing.T) {
	raw := `{
		// model chatter
		"summary": "http://example.com/x", /* inline */
		"performance_score": 55,
	}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/x", result.Summary)
	assert.Equal(t, 55.0, result.Score)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("I cannot help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"summary": broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	validator := func(p testPayload) error {
		if p.Summary == "" {
			return errors.New("summary is required")
		}
		return nil
	}
	_, err := ExtractJSON[testPayload](`{"performance_score":3}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "summary is required")
}
