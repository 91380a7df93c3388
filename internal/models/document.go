package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	FilePath      string          `json:"file_path,omitempty" db:"file_path"`
	FileType      string          `json:"file_type,omitempty" db:"file_type"`
	FileSizeBytes int64           `json:"file_size_bytes,omitempty" db:"file_size_bytes"`
	Status        string          `json:"status" db:"status"`
	Metadata      json.RawMessage `json:"metadata" db:"metadata"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	SentAt        *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// Document status moves forward only: draft -> pending -> partially_signed
// -> completed, with failed as an alternate terminal state.
const (
	DocStatusDraft           = "draft"
	DocStatusPending         = "pending"
	DocStatusPartiallySigned = "partially_signed"
	DocStatusCompleted       = "completed"
	DocStatusFailed          = "failed"
)
