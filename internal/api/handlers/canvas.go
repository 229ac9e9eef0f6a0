package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/augmented-canvas/canvas-api/internal/canvas"
	"github.com/augmented-canvas/canvas-api/internal/logger"
	"github.com/augmented-canvas/canvas-api/internal/services"
)

// CanvasHandler serves the canvas-mutating flows: the request carries the
// whole canvas document, the response carries it back with the generated
// nodes and edges appended.
type CanvasHandler struct {
	svc *services.CanvasService
}

func NewCanvasHandler(svc *services.CanvasService) *CanvasHandler {
	return &CanvasHandler{svc: svc}
}

type canvasPromptRequest struct {
	Canvas       canvas.Canvas `json:"canvas" binding:"required"`
	NodeID       string        `json:"node_id" binding:"required"`
	Question     string        `json:"question"`
	SystemPrompt string        `json:"system_prompt"`
	Depth        int           `json:"depth"`
}

// Prompt handles POST /api/canvas/prompt. When the agent fails after a
// prompt node was created, the returned canvas still contains that node
// carrying the error text so the plugin can persist it.
func (h *CanvasHandler) Prompt(c *gin.Context) {
	var req canvasPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Prompt(c.Request.Context(), services.PromptRequest{
		Canvas:       &req.Canvas,
		NodeID:       req.NodeID,
		Question:     req.Question,
		SystemPrompt: req.SystemPrompt,
		Depth:        req.Depth,
		APIKey:       c.GetHeader(apiKeyHeader),
	})
	if err != nil {
		logger.Error("Canvas prompt flow failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"node_id":    req.NodeID,
		})
		body := gin.H{"error": userErrorMessage(err)}
		if result != nil {
			body["canvas"] = result.Canvas
			if result.PromptNodeID != "" {
				body["prompt_node_id"] = result.PromptNodeID
			}
		}
		c.JSON(statusForError(err), body)
		return
	}

	body := gin.H{
		"canvas":           result.Canvas,
		"response_node_id": result.ResponseNodeID,
		"response":         result.Response,
		"model":            result.Model,
	}
	if result.PromptNodeID != "" {
		body["prompt_node_id"] = result.PromptNodeID
	}
	c.JSON(http.StatusOK, body)
}

type canvasQuestionsRequest struct {
	Canvas canvas.Canvas `json:"canvas" binding:"required"`
	NodeID string        `json:"node_id" binding:"required"`
	Count  int           `json:"count"`
	Depth  int           `json:"depth"`
}

// Questions handles POST /api/canvas/questions.
func (h *CanvasHandler) Questions(c *gin.Context) {
	var req canvasQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Questions(c.Request.Context(), services.QuestionsRequest{
		Canvas: &req.Canvas,
		NodeID: req.NodeID,
		Count:  req.Count,
		Depth:  req.Depth,
		APIKey: c.GetHeader(apiKeyHeader),
	})
	if err != nil {
		logger.Error("Canvas questions flow failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"node_id":    req.NodeID,
		})
		c.JSON(statusForError(err), gin.H{"error": userErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canvas":    result.Canvas,
		"questions": result.Questions,
		"node_ids":  result.NodeIDs,
		"model":     result.Model,
	})
}

type canvasFlashcardsRequest struct {
	Canvas canvas.Canvas `json:"canvas" binding:"required"`
	NodeID string        `json:"node_id" binding:"required"`
	Title  string        `json:"title"`
	Depth  int           `json:"depth"`
}

// Flashcards handles POST /api/canvas/flashcards.
func (h *CanvasHandler) Flashcards(c *gin.Context) {
	var req canvasFlashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Flashcards(c.Request.Context(), services.FlashcardsRequest{
		Canvas: &req.Canvas,
		NodeID: req.NodeID,
		Title:  req.Title,
		Depth:  req.Depth,
		APIKey: c.GetHeader(apiKeyHeader),
	})
	if err != nil {
		logger.Error("Canvas flashcards flow failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"node_id":    req.NodeID,
		})
		c.JSON(statusForError(err), gin.H{"error": userErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":   result.Set.Filename,
		"flashcards": result.Set.Flashcards,
		"path":       result.Path,
		"model":      result.Model,
	})
}
