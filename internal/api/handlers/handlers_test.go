package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/augmented-canvas/canvas-api/internal/agent"
	"github.com/augmented-canvas/canvas-api/internal/canvas"
	"github.com/augmented-canvas/canvas-api/internal/flashcards"
	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/models"
	"github.com/augmented-canvas/canvas-api/internal/services"
)

type stubProvider struct {
	completeFunc func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

func (p *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return p.completeFunc(ctx, req)
}

func (p *stubProvider) Name() string { return "stub" }

type stubFactory struct {
	provider llm.Provider
	err      error
}

func (f *stubFactory) GetProvider(_ context.Context, _ models.ModelConfig, _ string) (llm.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func textProvider(text string) llm.Provider {
	return &stubProvider{
		completeFunc: func(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Text: text}, nil
		},
	}
}

// setupTestRouter builds a router with the production routes over a
// stubbed provider factory.
func setupTestRouter(factory agent.ProviderFactory, writer *flashcards.Writer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	agentService := agent.NewServiceWithFactory(factory, 5*time.Second)
	usageService := services.NewUsageService(nil)

	router := gin.New()
	router.GET("/health", HealthCheck)

	agentHandler := NewAgentHandler(agentService, usageService, writer, nil)
	router.POST("/api/prompt", agentHandler.Prompt)
	router.POST("/api/questions", agentHandler.Questions)
	router.POST("/api/flashcards", agentHandler.Flashcards)

	configHandler := NewModelConfigHandler(agentService)
	router.GET("/api/model-config", configHandler.Get)
	router.POST("/api/model-config", configHandler.Update)

	canvasService := services.NewCanvasService(agentService, writer, nil)
	canvasHandler := NewCanvasHandler(canvasService)
	router.POST("/api/canvas/prompt", canvasHandler.Prompt)
	router.POST("/api/canvas/questions", canvasHandler.Questions)
	router.POST("/api/canvas/flashcards", canvasHandler.Flashcards)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "GET", "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}

func TestGetModelConfigReturnsDefault(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "GET", "/api/model-config", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.ModelConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, models.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName)
	assert.Equal(t, "OPENAI_API_KEY", cfg.APIKeyEnv)
}

func TestUpdateModelConfig(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "POST", "/api/model-config", map[string]any{
		"provider":   "gemini",
		"model_name": "gemini-2.5-flash",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/model-config", nil)
	var cfg models.ModelConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, models.ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
}

func TestUpdateModelConfigRejectsUnknownProvider(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "POST", "/api/model-config", map[string]any{
		"provider":   "anthropic",
		"model_name": "whatever",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	// Previous config stays in effect
	w = doJSON(t, router, "GET", "/api/model-config", nil)
	var cfg models.ModelConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, models.ProviderOpenAI, cfg.Provider)
}

func TestPromptSingleNode(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("the answer")}, nil)

	w := doJSON(t, router, "POST", "/api/prompt", map[string]any{
		"content": "what is this?",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response": "the answer"}`, w.Body.String())
}

func TestPromptMultiNode(t *testing.T) {
	var sent string
	provider := &stubProvider{
		completeFunc: func(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			sent = req.Content
			return &llm.CompletionResponse{Text: "combined"}, nil
		},
	}
	router := setupTestRouter(&stubFactory{provider: provider}, nil)

	w := doJSON(t, router, "POST", "/api/prompt", map[string]any{
		"nodes": []map[string]string{
			{"id": "n1", "content": "first"},
			{"id": "n2", "content": "second"},
		},
		"prompt": "compare them",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Node 1: first\n\nNode 2: second\n\nPrompt: compare them", sent)
}

func TestPromptRejectsEmptyBody(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "POST", "/api/prompt", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPromptMissingAPIKeyMessage(t *testing.T) {
	factory := &stubFactory{err: fmt.Errorf("openai: %w", llm.ErrMissingAPIKey)}
	router := setupTestRouter(factory, nil)

	w := doJSON(t, router, "POST", "/api/prompt", map[string]any{"content": "hi"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["response"], "Error: OpenAI API key not found")
	assert.Contains(t, body["response"], "plugin settings")
}

func TestPromptTimeoutStatus(t *testing.T) {
	provider := &stubProvider{
		completeFunc: func(ctx context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, context.DeadlineExceeded
		},
	}
	router := setupTestRouter(&stubFactory{provider: provider}, nil)

	w := doJSON(t, router, "POST", "/api/prompt", map[string]any{"content": "hi"})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestQuestionsEndpoint(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider(`{"questions": ["a", "b"]}`)}, nil)

	w := doJSON(t, router, "POST", "/api/questions", map[string]any{
		"content": "some content",
		"count":   2,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"questions": ["a", "b"]}`, w.Body.String())
}

func TestQuestionsMalformedModelOutput(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("not json")}, nil)

	w := doJSON(t, router, "POST", "/api/questions", map[string]any{"content": "c"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body["questions"], 1)
	assert.Contains(t, body["questions"][0], "Error:")
}

func TestFlashcardsEndpointPersists(t *testing.T) {
	dir := t.TempDir()
	router := setupTestRouter(
		&stubFactory{provider: textProvider(`{"filename": "chem", "flashcards": [{"front": "f", "back": "b"}]}`)},
		flashcards.NewWriter(dir),
	)

	w := doJSON(t, router, "POST", "/api/flashcards", map[string]any{
		"content": "chemistry notes",
		"title":   "Chemistry",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Filename   string             `json:"filename"`
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "chem", body.Filename)
	require.Len(t, body.Flashcards, 1)
}

func testCanvasBody() map[string]any {
	return map[string]any{
		"nodes": []map[string]any{
			{"id": "root", "type": "text", "text": "Background", "width": 400, "height": 200},
			{"id": "source", "type": "text", "text": "Topic", "width": 400, "height": 200, "y": 300},
		},
		"edges": []map[string]any{
			{"id": "e1", "fromNode": "root", "toNode": "source"},
		},
	}
}

func TestCanvasPromptFlow(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("generated answer")}, nil)

	w := doJSON(t, router, "POST", "/api/canvas/prompt", map[string]any{
		"canvas":  testCanvasBody(),
		"node_id": "source",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Canvas         canvas.Canvas `json:"canvas"`
		ResponseNodeID string        `json:"response_node_id"`
		Response       string        `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "generated answer", body.Response)
	require.Len(t, body.Canvas.Nodes, 3)

	node := body.Canvas.NodeByID(body.ResponseNodeID)
	require.NotNil(t, node)
	assert.True(t, node.IsAIGenerated)
	assert.Equal(t, canvas.GenerationResponse, node.GenerationType)
}

func TestCanvasPromptFailureKeepsPromptNode(t *testing.T) {
	provider := &stubProvider{
		completeFunc: func(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, errors.New("model unavailable")
		},
	}
	router := setupTestRouter(&stubFactory{provider: provider}, nil)

	w := doJSON(t, router, "POST", "/api/canvas/prompt", map[string]any{
		"canvas":   testCanvasBody(),
		"node_id":  "source",
		"question": "why?",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Canvas       canvas.Canvas `json:"canvas"`
		PromptNodeID string        `json:"prompt_node_id"`
		Error        string        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "model unavailable")
	require.NotEmpty(t, body.PromptNodeID)

	promptNode := body.Canvas.NodeByID(body.PromptNodeID)
	require.NotNil(t, promptNode)
	assert.Contains(t, promptNode.Text, "model unavailable")
}

func TestCanvasPromptUnknownNode(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider("x")}, nil)

	w := doJSON(t, router, "POST", "/api/canvas/prompt", map[string]any{
		"canvas":  testCanvasBody(),
		"node_id": "missing",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCanvasQuestionsFlow(t *testing.T) {
	router := setupTestRouter(&stubFactory{provider: textProvider(`{"questions": ["q1", "q2"]}`)}, nil)

	w := doJSON(t, router, "POST", "/api/canvas/questions", map[string]any{
		"canvas":  testCanvasBody(),
		"node_id": "source",
		"count":   2,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Canvas    canvas.Canvas `json:"canvas"`
		Questions []string      `json:"questions"`
		NodeIDs   []string      `json:"node_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"q1", "q2"}, body.Questions)
	require.Len(t, body.NodeIDs, 2)
	assert.Len(t, body.Canvas.Nodes, 4)
}

func TestCanvasFlashcardsFlow(t *testing.T) {
	dir := t.TempDir()
	router := setupTestRouter(
		&stubFactory{provider: textProvider(`{"filename": "topic-cards", "flashcards": [{"front": "f", "back": "b"}]}`)},
		flashcards.NewWriter(dir),
	)

	w := doJSON(t, router, "POST", "/api/canvas/flashcards", map[string]any{
		"canvas":  testCanvasBody(),
		"node_id": "source",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "topic-cards", body.Filename)
	assert.FileExists(t, body.Path)
}
