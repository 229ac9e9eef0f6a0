package models

import "time"

// UsageLog tracks one generation request for billing/debugging. Rows are
// written only when a database is configured.
type UsageLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	RequestID    string    `gorm:"index" json:"request_id"`
	Endpoint     string    `gorm:"not null" json:"endpoint"`
	Provider     string    `gorm:"not null" json:"provider"`
	Model        string    `gorm:"not null" json:"model"`
	TotalTokens  int       `gorm:"not null" json:"total_tokens"`
	InputTokens  int       `gorm:"not null" json:"input_tokens"`
	OutputTokens int       `gorm:"not null" json:"output_tokens"`
	DurationMS   int       `gorm:"not null" json:"duration_ms"`
	Success      bool      `gorm:"default:true" json:"success"`
}
