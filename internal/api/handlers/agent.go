// Package handlers implements the Gin handlers for the canvas backend
// API: the original plugin endpoints plus the canvas-mutating flows.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/augmented-canvas/canvas-api/internal/agent"
	"github.com/augmented-canvas/canvas-api/internal/canvas"
	"github.com/augmented-canvas/canvas-api/internal/flashcards"
	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/logger"
	"github.com/augmented-canvas/canvas-api/internal/metrics"
	"github.com/augmented-canvas/canvas-api/internal/services"
)

// apiKeyHeader carries an optional per-request OpenAI key from the
// plugin settings. It overrides the server-level key for that request.
const apiKeyHeader = "X-OpenAI-Key"

const missingKeyMessage = "OpenAI API key not found. Please enter your API key " +
	"in the plugin settings or set the OPENAI_API_KEY environment variable " +
	"before starting the backend."

var sentryMetrics = metrics.NewSentryMetrics()

// AgentHandler serves the content-in, text-out endpoints the plugin's
// remote backend mode calls.
type AgentHandler struct {
	agent  *agent.Service
	usage  *services.UsageService
	writer *flashcards.Writer
	cw     *metrics.Client
}

// NewAgentHandler creates an AgentHandler. usage, writer, and cw may be
// nil; the matching side effects are then skipped.
func NewAgentHandler(agentService *agent.Service, usage *services.UsageService, writer *flashcards.Writer, cw *metrics.Client) *AgentHandler {
	return &AgentHandler{agent: agentService, usage: usage, writer: writer, cw: cw}
}

// promptRequest is the untagged single-node / multi-node union: a
// single-node body carries content, a multi-node body carries nodes and
// a prompt.
type promptRequest struct {
	Content      string               `json:"content"`
	SystemPrompt string               `json:"system_prompt"`
	Nodes        []canvas.NodeContent `json:"nodes"`
	Prompt       string               `json:"prompt"`
}

// Prompt handles POST /api/prompt.
func (h *AgentHandler) Prompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var content string
	switch {
	case len(req.Nodes) > 0 && req.Prompt != "":
		parts := make([]string, 0, len(req.Nodes))
		for _, node := range req.Nodes {
			parts = append(parts, node.Content)
		}
		content = agent.BuildMultiNodePrompt(parts, req.Prompt)
	case req.Content != "":
		content = req.Content
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected either content or nodes with a prompt"})
		return
	}

	start := time.Now()
	result, err := h.agent.Ask(c.Request.Context(), content, req.SystemPrompt, c.GetHeader(apiKeyHeader))
	if err != nil {
		h.recordOutcome(c, "/api/prompt", "", llm.Usage{}, start, false)
		logger.Error("Prompt generation failed", err, logger.Fields{"request_id": c.GetString("request_id")})
		c.JSON(statusForError(err), gin.H{"response": "Error: " + userErrorMessage(err)})
		return
	}

	h.recordOutcome(c, "/api/prompt", result.Model, result.Usage, start, true)
	c.JSON(http.StatusOK, gin.H{"response": result.Text})
}

type questionsRequest struct {
	Content string `json:"content" binding:"required"`
	Count   int    `json:"count"`
}

// Questions handles POST /api/questions.
func (h *AgentHandler) Questions(c *gin.Context) {
	var req questionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := h.agent.AskQuestions(c.Request.Context(), req.Content, req.Count, c.GetHeader(apiKeyHeader))
	if err != nil {
		h.recordOutcome(c, "/api/questions", "", llm.Usage{}, start, false)
		logger.Error("Question generation failed", err, logger.Fields{"request_id": c.GetString("request_id")})
		c.JSON(statusForError(err), gin.H{"questions": []string{"Error: " + userErrorMessage(err)}})
		return
	}

	h.recordOutcome(c, "/api/questions", result.Model, result.Usage, start, true)
	c.JSON(http.StatusOK, gin.H{"questions": result.Questions})
}

type flashcardsRequest struct {
	Content string `json:"content" binding:"required"`
	Title   string `json:"title"`
}

// Flashcards handles POST /api/flashcards. The generated set is also
// persisted when a flashcards directory is configured; a parse failure
// means nothing is written.
func (h *AgentHandler) Flashcards(c *gin.Context) {
	var req flashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := h.agent.AskFlashcards(c.Request.Context(), req.Content, req.Title, c.GetHeader(apiKeyHeader))
	if err != nil {
		h.recordOutcome(c, "/api/flashcards", "", llm.Usage{}, start, false)
		logger.Error("Flashcard generation failed", err, logger.Fields{"request_id": c.GetString("request_id")})
		c.JSON(statusForError(err), gin.H{
			"filename":   "error: " + userErrorMessage(err),
			"flashcards": []any{},
		})
		return
	}

	if h.writer != nil {
		if _, err := h.writer.Write(result.Set); err != nil {
			logger.Warn("Failed to persist flashcards", logger.Fields{
				"request_id": c.GetString("request_id"),
				"error":      err.Error(),
			})
		}
	}

	h.recordOutcome(c, "/api/flashcards", result.Model, result.Usage, start, true)
	c.JSON(http.StatusOK, gin.H{
		"filename":   result.Set.Filename,
		"flashcards": result.Set.Flashcards,
	})
}

// recordOutcome logs usage to the database and publishes request metrics.
func (h *AgentHandler) recordOutcome(c *gin.Context, endpoint, model string, usage llm.Usage, start time.Time, success bool) {
	duration := time.Since(start)
	snapshot := h.agent.Config()
	if model == "" {
		model = snapshot.ModelName
	}

	if err := h.usage.Record(c.GetString("request_id"), endpoint, string(snapshot.Provider), model, usage, duration, success); err != nil {
		logger.Warn("Failed to log usage", logger.Fields{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
	}

	if success {
		sentryMetrics.RecordTokenUsage(c.Request.Context(), model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	}
	sentryMetrics.RecordAgentDuration(c.Request.Context(), duration, success)

	if h.cw != nil {
		if success {
			h.cw.RecordTokenUsage(model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
		}
		h.cw.RecordAgentDuration(duration, success)
	}
}

// userErrorMessage maps internal errors to the messages the plugin shows
// the user.
func userErrorMessage(err error) string {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return missingKeyMessage
	}
	return err.Error()
}

// statusForError maps the error taxonomy to HTTP status codes.
func statusForError(err error) int {
	var reqErr *agent.RequestError
	switch {
	case errors.Is(err, canvas.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, canvas.ErrNoConnectedNodes),
		errors.Is(err, canvas.ErrContentUnavailable),
		errors.Is(err, agent.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.As(err, &reqErr) && reqErr.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
