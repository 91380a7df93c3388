// Package field holds positioned, typed signature fields and their filled
// values. Positions are screen-space boxes: origin top-left, y grows down.
package field

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/audit"
	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

var (
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrNotFieldOwner    = errors.New("field belongs to another signer")
)

type Service struct {
	store store.Store
	audit *audit.Service
}

func NewService(st store.Store, auditSvc *audit.Service) *Service {
	return &Service{store: st, audit: auditSvc}
}

type CreateRequest struct {
	DocumentID uuid.UUID
	SignerID   uuid.UUID
	FieldType  string
	Page       int
	X, Y       float64
	Width      float64
	Height     float64
	Required   bool
	Value      *string
}

// Create inserts a field. Duplicate positions are permitted; deduplication is
// the caller's responsibility.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.SignatureField, error) {
	if !models.ValidFieldType(req.FieldType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFieldType, req.FieldType)
	}
	if req.Page < 1 {
		req.Page = 1
	}

	if _, err := s.store.GetDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	sg, err := s.store.GetSigner(ctx, req.SignerID)
	if err != nil {
		return nil, err
	}

	f := &models.SignatureField{
		ID:         uuid.New(),
		DocumentID: req.DocumentID,
		SignerID:   req.SignerID,
		FieldType:  req.FieldType,
		Page:       req.Page,
		X:          req.X,
		Y:          req.Y,
		Width:      req.Width,
		Height:     req.Height,
		Required:   req.Required,
		Value:      req.Value,
	}
	if err := s.store.CreateField(ctx, f); err != nil {
		return nil, err
	}

	if f.Value != nil {
		s.recordValueEvent(ctx, f, sg.Email, "")
	}
	return f, nil
}

// SetValue stores the submitted value and appends the matching event. Only
// the signer owning the field may write it.
func (s *Service) SetValue(ctx context.Context, fieldID, signerID uuid.UUID, value, ip string) (*models.SignatureField, error) {
	f, err := s.store.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if f.SignerID != signerID {
		return nil, fmt.Errorf("%w: %s", ErrNotFieldOwner, fieldID)
	}
	sg, err := s.store.GetSigner(ctx, f.SignerID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetFieldValue(ctx, fieldID, value); err != nil {
		return nil, err
	}
	f.Value = &value

	s.recordValueEvent(ctx, f, sg.Email, ip)
	return f, nil
}

func (s *Service) ListForDocument(ctx context.Context, documentID uuid.UUID) ([]models.FieldWithSigner, error) {
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.store.ListFieldsForDocument(ctx, documentID)
}

// Delete removes the field after recording a deletion event that captures
// the prior type and owner.
func (s *Service) Delete(ctx context.Context, fieldID uuid.UUID, ip string) error {
	f, err := s.store.GetField(ctx, fieldID)
	if err != nil {
		return err
	}
	sg, err := s.store.GetSigner(ctx, f.SignerID)
	if err != nil {
		return err
	}

	return s.store.Tx(ctx, func(tx store.Store) error {
		event := audit.NewEvent(audit.Entry{
			DocumentID: f.DocumentID,
			EventType:  models.EventDeleted,
			Details: map[string]interface{}{
				"field_id":   f.ID,
				"field_type": f.FieldType,
				"page":       f.Page,
				"x":          f.X,
				"y":          f.Y,
			},
			ActorEmail: sg.Email,
			IPAddress:  ip,
		})
		if err := tx.AppendEvent(ctx, event); err != nil {
			return err
		}
		return tx.DeleteField(ctx, fieldID)
	})
}

func (s *Service) recordValueEvent(ctx context.Context, f *models.SignatureField, actorEmail, ip string) {
	eventType := models.EventFieldAdded
	if f.FieldType == models.FieldTypeSignature {
		eventType = models.EventSigned
	}
	err := s.audit.Record(ctx, audit.Entry{
		DocumentID: f.DocumentID,
		EventType:  eventType,
		Details: map[string]interface{}{
			"field_id":   f.ID,
			"field_type": f.FieldType,
			"page":       f.Page,
			"x":          f.X,
			"y":          f.Y,
		},
		ActorEmail: actorEmail,
		IPAddress:  ip,
	})
	if err != nil {
		slog.Warn("could not record signature event", "field_id", f.ID, "error", err)
	}
}
