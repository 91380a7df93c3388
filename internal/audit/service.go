// Package audit records the append-only signature event trail. Events are
// never updated or deleted; a removed signature is recorded as a new event.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

type Entry struct {
	DocumentID uuid.UUID
	EventType  string
	Details    map[string]interface{}
	ActorEmail string
	IPAddress  string
}

// NewEvent builds the event row for an entry. Exposed so callers already
// inside a store transaction can append through their own handle.
func NewEvent(entry Entry) *models.SignatureEvent {
	payload, _ := json.Marshal(entry.Details)
	return &models.SignatureEvent{
		ID:         uuid.New(),
		DocumentID: entry.DocumentID,
		EventType:  entry.EventType,
		Payload:    payload,
		ActorEmail: entry.ActorEmail,
		IPAddress:  entry.IPAddress,
	}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	if err := s.store.AppendEvent(ctx, NewEvent(entry)); err != nil {
		return fmt.Errorf("record signature event: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, documentID uuid.UUID) ([]models.SignatureEvent, error) {
	return s.store.ListEvents(ctx, documentID)
}
