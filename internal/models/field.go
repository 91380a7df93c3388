package models

import (
	"time"

	"github.com/google/uuid"
)

type SignatureField struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DocumentID uuid.UUID `json:"document_id" db:"document_id"`
	SignerID   uuid.UUID `json:"signer_id" db:"signer_id"`
	FieldType  string    `json:"field_type" db:"field_type"`
	Page       int       `json:"page" db:"page"` // 1-based
	X          float64   `json:"x" db:"x"`
	Y          float64   `json:"y" db:"y"`
	Width      float64   `json:"width" db:"width"`
	Height     float64   `json:"height" db:"height"`
	Required   bool      `json:"required" db:"required"`
	Value      *string   `json:"value,omitempty" db:"value"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FieldWithSigner is the joined view used by the signing UI and the stamp pass.
type FieldWithSigner struct {
	SignatureField
	SignerName  string `json:"signer_name" db:"signer_name"`
	SignerEmail string `json:"signer_email" db:"signer_email"`
}

const (
	FieldTypeSignature = "signature"
	FieldTypeInitials  = "initials"
	FieldTypeDate      = "date"
	FieldTypeText      = "text"
)

func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeSignature, FieldTypeInitials, FieldTypeDate, FieldTypeText:
		return true
	}
	return false
}
