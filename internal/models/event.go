package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SignatureEvent is the append-only audit trail. Rows are never updated or
// deleted; removing a signature is itself recorded as a new event.
type SignatureEvent struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	DocumentID uuid.UUID       `json:"document_id" db:"document_id"`
	EventType  string          `json:"event_type" db:"event_type"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	ActorEmail string          `json:"actor_email,omitempty" db:"actor_email"`
	IPAddress  string          `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	EventSigned     = "signed"
	EventFieldAdded = "field_added"
	EventDeleted    = "deleted"
)
