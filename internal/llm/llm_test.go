package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/augmented-canvas/canvas-api/internal/models"
)

func TestExtractAndCleanTextOutput(t *testing.T) {
	cases := map[string]string{
		`{"a": 1}`:                         `{"a": 1}`,
		"```json\n{\"a\": 1}\n```":         `{"a": 1}`,
		"```\n{\"a\": 1}\n```":             `{"a": 1}`,
		"  \n{\"a\": 1}\n  ":               `{"a": 1}`,
		"":                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractAndCleanTextOutput(in), "input %q", in)
	}
}

func TestFactoryMissingKey(t *testing.T) {
	factory := NewProviderFactory("", "")
	cfg := models.ModelConfig{Provider: models.ProviderOpenAI, ModelName: "gpt-4o-mini"}

	_, err := factory.GetProvider(context.Background(), cfg, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFactoryDirectKeyWins(t *testing.T) {
	factory := NewProviderFactory("", "")
	cfg := models.ModelConfig{Provider: models.ProviderOpenAI, ModelName: "gpt-4o-mini"}

	provider, err := factory.GetProvider(context.Background(), cfg, "sk-from-header")
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}

func TestFactoryUnknownProvider(t *testing.T) {
	factory := NewProviderFactory("key", "key")
	cfg := models.ModelConfig{Provider: "anthropic", ModelName: "x"}

	_, err := factory.GetProvider(context.Background(), cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed: openai, gemini")
}

func TestQuestionsSchemaShape(t *testing.T) {
	schema := GetQuestionsOutputSchema()

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "questions")
	assert.Equal(t, false, schema["additionalProperties"])
}

func TestFlashcardsSchemaShape(t *testing.T) {
	schema := GetFlashcardsOutputSchema()

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "filename")
	assert.Contains(t, props, "flashcards")
}
