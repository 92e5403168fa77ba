package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractJob represents one extraction run over a page.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	PageID       uuid.UUID  `json:"page_id"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}
