package config

import (
	"os"
	"strconv"
	"time"
)

const defaultAgentTimeoutSeconds = 120

// Config holds the application configuration. All of it comes from the
// environment; the model config itself is owned by the agent service and
// editable at runtime through /api/model-config.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API keys
	OpenAIAPIKey string // OpenAI API key (fallback when no per-request key is sent)
	GeminiAPIKey string // Google Gemini API key

	// Vault integration
	VaultDir      string // root directory for resolving file-node content
	FlashcardsDir string // directory flashcard sets are written to

	// Wall-clock bound on a single agent call
	AgentTimeout time.Duration

	// Usage logging (optional)
	DatabaseURL string

	// Observability
	SentryDSN         string
	LangfusePublicKey string
	LangfuseSecretKey string
	LangfuseHost      string
	LangfuseEnabled   bool
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "3000"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		VaultDir:          getEnv("VAULT_DIR", ""),
		FlashcardsDir:     getEnv("FLASHCARDS_DIR", ""),
		AgentTimeout:      getEnvSeconds("AGENT_TIMEOUT", defaultAgentTimeoutSeconds),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
