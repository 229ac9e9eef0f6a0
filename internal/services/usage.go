package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/models"
)

// UsageService logs per-request model usage to Postgres. A nil receiver
// or nil db is a no-op so the API works without a database configured.
type UsageService struct {
	db *gorm.DB
}

// NewUsageService creates a UsageService. db may be nil.
func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

// Record persists one usage row. Failures are returned for the caller to
// log; they never fail the request.
func (s *UsageService) Record(requestID, endpoint, provider, model string, usage llm.Usage, duration time.Duration, success bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Create(&models.UsageLog{
		RequestID:    requestID,
		Endpoint:     endpoint,
		Provider:     provider,
		Model:        model,
		TotalTokens:  usage.TotalTokens,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		DurationMS:   int(duration.Milliseconds()),
		Success:      success,
	}).Error
}
