package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/augmented-canvas/canvas-api/internal/agent"
	"github.com/augmented-canvas/canvas-api/internal/logger"
	"github.com/augmented-canvas/canvas-api/internal/models"
)

// ModelConfigHandler reads and updates the live model configuration.
type ModelConfigHandler struct {
	agent *agent.Service
}

func NewModelConfigHandler(agentService *agent.Service) *ModelConfigHandler {
	return &ModelConfigHandler{agent: agentService}
}

// Get handles GET /api/model-config.
func (h *ModelConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.agent.Config())
}

// Update handles POST /api/model-config. Invalid configs are rejected
// and the previous config stays in effect.
func (h *ModelConfigHandler) Update(c *gin.Context) {
	var cfg models.ModelConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.agent.UpdateConfig(cfg); err != nil {
		logger.Warn("Rejected model config update", logger.Fields{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Model config updated", logger.Fields{
		"request_id": c.GetString("request_id"),
		"provider":   string(cfg.Provider),
		"model":      cfg.ModelName,
	})
	c.Status(http.StatusOK)
}
