package agent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/augmented-canvas/canvas-api/internal/config"
	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/models"
	"github.com/augmented-canvas/canvas-api/internal/observability"
)

const defaultQuestionCount = 5

// ErrInvalidConfig is returned when a model config update names an
// unknown provider or an empty model.
var ErrInvalidConfig = errors.New("invalid model config: provider and model_name are required")

// ProviderFactory builds a provider for one request. *llm.ProviderFactory
// is the production implementation; tests substitute stubs.
type ProviderFactory interface {
	GetProvider(ctx context.Context, cfg models.ModelConfig, directKey string) (llm.Provider, error)
}

// Service is the agent request builder: it owns the live model config,
// composes the instruction strings, issues exactly one provider call per
// operation, and parses structured responses. Each operation is stateless
// given (content, config).
type Service struct {
	mu      sync.RWMutex
	config  models.ModelConfig
	factory ProviderFactory
	timeout time.Duration
}

// NewService creates a Service with the default model config and a
// provider factory backed by the server-level API keys.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:  models.DefaultModelConfig(),
		factory: llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		timeout: cfg.AgentTimeout,
	}
}

// NewServiceWithFactory is like NewService but with an explicit factory.
func NewServiceWithFactory(factory ProviderFactory, timeout time.Duration) *Service {
	return &Service{
		config:  models.DefaultModelConfig(),
		factory: factory,
		timeout: timeout,
	}
}

// Config returns a snapshot of the current model configuration.
func (s *Service) Config() models.ModelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig replaces the model configuration.
func (s *Service) UpdateConfig(cfg models.ModelConfig) error {
	if !cfg.Valid() {
		return ErrInvalidConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}

// Result carries the raw text of one completed agent call plus the
// metadata handlers log and meter.
type Result struct {
	Text  string
	Model string
	Usage llm.Usage
}

// QuestionsResult is the parsed output of AskQuestions.
type QuestionsResult struct {
	Result
	Questions []string
}

// FlashcardsResult is the parsed output of AskFlashcards.
type FlashcardsResult struct {
	Result
	Set models.FlashcardSet
}

type questionsOutput struct {
	Questions []string `json:"questions"`
}

// Ask sends content to the model and returns the plain-text response.
// systemPrompt and apiKey are optional; apiKey overrides the configured
// key for this one request.
func (s *Service) Ask(ctx context.Context, content, systemPrompt, apiKey string) (*Result, error) {
	return s.complete(ctx, "ask", content, systemPrompt, apiKey, nil)
}

// AskQuestions generates count questions about content. count <= 0 falls
// back to the default of 5.
func (s *Service) AskQuestions(ctx context.Context, content string, count int, apiKey string) (*QuestionsResult, error) {
	if count <= 0 {
		count = defaultQuestionCount
	}

	schema := &llm.OutputSchema{
		Name:        "questions",
		Description: "A list of questions about the supplied content",
		Schema:      llm.GetQuestionsOutputSchema(),
	}
	result, err := s.complete(ctx, "ask_questions", buildQuestionsPrompt(content, count), "", apiKey, schema)
	if err != nil {
		return nil, err
	}

	var output questionsOutput
	if err := json.Unmarshal([]byte(result.Text), &output); err != nil {
		return nil, &ResponseFormatError{What: "questions", Err: err}
	}

	return &QuestionsResult{Result: *result, Questions: output.Questions}, nil
}

// AskFlashcards generates a flashcard set from content. title is optional
// and only shapes the instruction string.
func (s *Service) AskFlashcards(ctx context.Context, content, title, apiKey string) (*FlashcardsResult, error) {
	schema := &llm.OutputSchema{
		Name:        "flashcards",
		Description: "A flashcard set with a suggested filename",
		Schema:      llm.GetFlashcardsOutputSchema(),
	}
	result, err := s.complete(ctx, "ask_flashcards", buildFlashcardsPrompt(content, title), "", apiKey, schema)
	if err != nil {
		return nil, err
	}

	var set models.FlashcardSet
	if err := json.Unmarshal([]byte(result.Text), &set); err != nil {
		return nil, &ResponseFormatError{What: "flashcards", Err: err}
	}
	if set.Filename == "" {
		return nil, &ResponseFormatError{What: "flashcards", Err: errors.New("missing filename field")}
	}

	return &FlashcardsResult{Result: *result, Set: set}, nil
}

// complete performs the single request/response round trip every
// operation reduces to.
func (s *Service) complete(
	ctx context.Context,
	operation, content, systemPrompt, apiKey string,
	schema *llm.OutputSchema,
) (*Result, error) {
	snapshot := s.Config()

	provider, err := s.factory.GetProvider(ctx, snapshot, apiKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	trace := observability.GetClient().StartTrace(ctx, operation, map[string]interface{}{
		"provider": string(snapshot.Provider),
	})
	defer trace.Finish()
	generation := trace.Generation(operation, snapshot.ModelName, content)

	resp, err := provider.Complete(ctx, &llm.CompletionRequest{
		Model:        snapshot.ModelName,
		Content:      content,
		SystemPrompt: systemPrompt,
		OutputSchema: schema,
	})
	if err != nil {
		generation.End(nil, llm.Usage{}, err)
		return nil, classifyRequestError(err)
	}
	generation.End(resp.Text, resp.Usage, nil)

	return &Result{
		Text:  resp.Text,
		Model: snapshot.ModelName,
		Usage: resp.Usage,
	}, nil
}
