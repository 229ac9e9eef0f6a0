package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when neither a per-request key nor a
// configured key is available for the selected provider.
var ErrMissingAPIKey = errors.New("API key not found: set it in the plugin settings or export it before starting the backend")

// Provider defines the interface for LLM providers.
// Each call is a single request/response; there is no streaming or
// multi-turn state.
type Provider interface {
	// Complete sends one completion request and returns the text output.
	// When request.OutputSchema is set the provider enforces structured
	// output so the text parses as JSON of that shape.
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "openai", "gemini")
	Name() string
}

// CompletionRequest contains everything needed for one completion call.
type CompletionRequest struct {
	Model        string
	Content      string
	SystemPrompt string
	// Structured output schema - set for questions/flashcards requests
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// Usage holds token counts for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// CompletionResponse contains the result from the LLM.
type CompletionResponse struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}
