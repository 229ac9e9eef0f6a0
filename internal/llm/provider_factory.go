package llm

import (
	"context"
	"fmt"

	"github.com/augmented-canvas/canvas-api/internal/models"
)

// ProviderFactory creates providers from a model config plus an optional
// per-request API key. Providers are cheap to construct, so the factory
// builds one per request rather than caching clients.
type ProviderFactory struct {
	openaiAPIKey string
	geminiAPIKey string
}

// NewProviderFactory creates a new provider factory. The keys are the
// server-level fallbacks used when neither a per-request key nor the
// config's env var yields one.
func NewProviderFactory(openaiAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		geminiAPIKey: geminiAPIKey,
	}
}

// GetProvider returns the provider for the given config. directKey, when
// non-empty, overrides every other key source for this one request.
func (f *ProviderFactory) GetProvider(ctx context.Context, cfg models.ModelConfig, directKey string) (Provider, error) {
	switch cfg.Provider {
	case models.ProviderOpenAI:
		apiKey := cfg.ResolveAPIKey(directKey)
		if apiKey == "" {
			apiKey = f.openaiAPIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		return NewOpenAIProvider(apiKey, cfg.BaseURL), nil

	case models.ProviderGemini:
		apiKey := cfg.ResolveAPIKey(directKey)
		if apiKey == "" {
			apiKey = f.geminiAPIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
		}
		return NewGeminiProvider(ctx, apiKey)

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: openai, gemini)", cfg.Provider)
	}
}
