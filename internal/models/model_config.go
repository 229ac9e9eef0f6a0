package models

import "os"

// ModelProvider identifies which LLM backend serves a request.
type ModelProvider string

const (
	ProviderOpenAI ModelProvider = "openai"
	ProviderGemini ModelProvider = "gemini"
)

// ModelConfig holds the model settings the agent service runs with.
// It is treated as an immutable snapshot per request; the live copy is
// owned by the agent service behind a RWMutex.
type ModelConfig struct {
	Provider  ModelProvider `json:"provider"`
	ModelName string        `json:"model_name"`
	APIKeyEnv string        `json:"api_key_env,omitempty"` // env var holding the API key
	BaseURL   string        `json:"base_url,omitempty"`    // optional custom API endpoint
}

// DefaultModelConfig returns the configuration used when nothing has been
// set: OpenAI with the key read from OPENAI_API_KEY.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:  ProviderOpenAI,
		ModelName: "gpt-4o-mini",
		APIKeyEnv: "OPENAI_API_KEY",
	}
}

// Valid reports whether the config names a known provider and a model.
func (c ModelConfig) Valid() bool {
	if c.ModelName == "" {
		return false
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		return true
	}
	return false
}

// ResolveAPIKey returns the key to use for one request: a non-empty direct
// key wins, then the configured environment variable.
func (c ModelConfig) ResolveAPIKey(directKey string) string {
	if directKey != "" {
		return directKey
	}
	if c.APIKeyEnv != "" {
		return os.Getenv(c.APIKeyEnv)
	}
	return ""
}

// HasAPIKey reports whether any key is available for this config.
func (c ModelConfig) HasAPIKey(directKey string) bool {
	return c.ResolveAPIKey(directKey) != ""
}
