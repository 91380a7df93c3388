package models

import (
	"time"

	"github.com/google/uuid"
)

type Signer struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	DocumentID     uuid.UUID  `json:"document_id" db:"document_id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	SigningOrder   int        `json:"order" db:"signing_order"`
	Status         string     `json:"status" db:"status"`
	Token          string     `json:"-" db:"token"`
	TokenExpiresAt time.Time  `json:"-" db:"token_expires_at"`
	SignedAt       *time.Time `json:"signed_at,omitempty" db:"signed_at"`
}

// Signer status: pending -> draft -> signed. A signed signer may re-open to
// draft; any other submit against signed is rejected.
const (
	SignerStatusPending = "pending"
	SignerStatusDraft   = "draft"
	SignerStatusSigned  = "signed"
)
