// Package store defines the persistence handle for the signing workflow.
// Services receive a Store instead of a shared database client so tests can
// substitute the in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	SetDocumentStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkDocumentSent(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkDocumentCompleted sets status=completed and completed_at, keeping
	// an earlier completed_at if one is already recorded.
	MarkDocumentCompleted(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateSigners(ctx context.Context, signers []*models.Signer) error
	ListSigners(ctx context.Context, documentID uuid.UUID) ([]models.Signer, error)
	GetSigner(ctx context.Context, id uuid.UUID) (*models.Signer, error)
	GetSignerByToken(ctx context.Context, token string) (*models.Signer, error)
	SetSignerStatus(ctx context.Context, id uuid.UUID, status string, signedAt *time.Time) error

	CreateField(ctx context.Context, field *models.SignatureField) error
	GetField(ctx context.Context, id uuid.UUID) (*models.SignatureField, error)
	ListFieldsForDocument(ctx context.Context, documentID uuid.UUID) ([]models.FieldWithSigner, error)
	SetFieldValue(ctx context.Context, id uuid.UUID, value string) error
	DeleteField(ctx context.Context, id uuid.UUID) error

	AppendEvent(ctx context.Context, event *models.SignatureEvent) error
	ListEvents(ctx context.Context, documentID uuid.UUID) ([]models.SignatureEvent, error)

	// Tx runs fn against a store view whose writes commit atomically.
	Tx(ctx context.Context, fn func(Store) error) error
}
