package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/models"
)

// MockProvider implements llm.Provider with configurable behavior
type MockProvider struct {
	CompleteFunc func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

func (m *MockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return m.CompleteFunc(ctx, req)
}

func (m *MockProvider) Name() string { return "mock" }

type mockFactory struct {
	provider llm.Provider
	err      error
}

func (f *mockFactory) GetProvider(_ context.Context, _ models.ModelConfig, _ string) (llm.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func newTestService(provider llm.Provider) *Service {
	return NewServiceWithFactory(&mockFactory{provider: provider}, 5*time.Second)
}

func TestAskReturnsProviderText(t *testing.T) {
	var gotReq *llm.CompletionRequest
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			gotReq = req
			return &llm.CompletionResponse{
				Text:  "the answer",
				Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
			}, nil
		},
	}
	s := newTestService(provider)

	result, err := s.Ask(context.Background(), "what is this?", "be brief", "")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Text)
	assert.Equal(t, 15, result.Usage.TotalTokens)

	require.NotNil(t, gotReq)
	assert.Equal(t, "what is this?", gotReq.Content)
	assert.Equal(t, "be brief", gotReq.SystemPrompt)
	assert.Nil(t, gotReq.OutputSchema)
}

func TestAskQuestionsParsesInOrder(t *testing.T) {
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			assert.NotNil(t, req.OutputSchema)
			return &llm.CompletionResponse{Text: `{"questions": ["a", "b", "c"]}`}, nil
		},
	}
	s := newTestService(provider)

	result, err := s.AskQuestions(context.Background(), "content", 3, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, result.Questions)
}

func TestAskQuestionsDefaultCount(t *testing.T) {
	var prompt string
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			prompt = req.Content
			return &llm.CompletionResponse{Text: `{"questions": []}`}, nil
		},
	}
	s := newTestService(provider)

	_, err := s.AskQuestions(context.Background(), "content", 0, "")
	require.NoError(t, err)
	assert.True(t, strings.Contains(prompt, "generate 5 thoughtful questions"), "prompt was %q", prompt)
}

func TestAskQuestionsMalformedResponse(t *testing.T) {
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Text: "not json at all"}, nil
		},
	}
	s := newTestService(provider)

	_, err := s.AskQuestions(context.Background(), "content", 3, "")
	require.Error(t, err)

	var formatErr *ResponseFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "questions", formatErr.What)
}

func TestAskFlashcardsParsesSet(t *testing.T) {
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{
				Text: `{"filename": "biology-basics", "flashcards": [{"front": "Q", "back": "A"}]}`,
			}, nil
		},
	}
	s := newTestService(provider)

	result, err := s.AskFlashcards(context.Background(), "content", "Biology", "")
	require.NoError(t, err)
	assert.Equal(t, "biology-basics", result.Set.Filename)
	require.Len(t, result.Set.Flashcards, 1)
	assert.Equal(t, "Q", result.Set.Flashcards[0].Front)
}

func TestAskFlashcardsMissingFilename(t *testing.T) {
	provider := &MockProvider{
		CompleteFunc: func(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Text: `{"flashcards": []}`}, nil
		},
	}
	s := newTestService(provider)

	_, err := s.AskFlashcards(context.Background(), "content", "", "")
	var formatErr *ResponseFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "flashcards", formatErr.What)
}

func TestTimeoutBecomesRequestError(t *testing.T) {
	provider := &MockProvider{
		CompleteFunc: func(ctx context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := NewServiceWithFactory(&mockFactory{provider: provider}, 10*time.Millisecond)

	_, err := s.Ask(context.Background(), "content", "", "")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Timeout)
}

func TestMissingKeyPassesThrough(t *testing.T) {
	wantErr := errors.New("openai: " + llm.ErrMissingAPIKey.Error())
	s := NewServiceWithFactory(&mockFactory{err: wantErr}, time.Second)

	_, err := s.Ask(context.Background(), "content", "", "")
	assert.Equal(t, wantErr, err)
}

func TestUpdateConfigValidation(t *testing.T) {
	s := newTestService(&MockProvider{})

	err := s.UpdateConfig(models.ModelConfig{Provider: "openai"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = s.UpdateConfig(models.ModelConfig{Provider: "unknown", ModelName: "m"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = s.UpdateConfig(models.ModelConfig{Provider: "gemini", ModelName: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGemini, s.Config().Provider)
}

func TestBuildMultiNodePrompt(t *testing.T) {
	got := BuildMultiNodePrompt([]string{"first", "second"}, "summarize")

	assert.Equal(t, "Node 1: first\n\nNode 2: second\n\nPrompt: summarize", got)
}
