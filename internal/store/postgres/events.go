package postgres

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
)

func (s *Store) AppendEvent(ctx context.Context, e *models.SignatureEvent) error {
	var ip *netip.Addr
	if e.IPAddress != "" {
		parsed, err := netip.ParseAddr(e.IPAddress)
		if err == nil {
			ip = &parsed
		}
	}

	err := s.q.QueryRow(ctx,
		`INSERT INTO signature_events (id, document_id, event_type, payload, actor_email, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		e.ID, e.DocumentID, e.EventType, e.Payload, e.ActorEmail, ip,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert signature event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, documentID uuid.UUID) ([]models.SignatureEvent, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, document_id, event_type, payload, actor_email, ip_address::text, created_at
		 FROM signature_events WHERE document_id = $1 ORDER BY created_at ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list signature events: %w", err)
	}
	defer rows.Close()

	var events []models.SignatureEvent
	for rows.Next() {
		var e models.SignatureEvent
		var ip *string
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.EventType, &e.Payload, &e.ActorEmail, &ip, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signature event: %w", err)
		}
		if ip != nil {
			e.IPAddress = *ip
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
