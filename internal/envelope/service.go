// Package envelope implements the batch send operation: register several
// signers and their fields on a document in one call, then notify the
// first-order recipients.
package envelope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/field"
	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/session"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store"
)

var ErrUnknownRecipient = errors.New("field references unknown recipient")

type Service struct {
	store    store.Store
	signers  *signer.Service
	fields   *field.Service
	notifier session.Notifier
}

func NewService(st store.Store, signers *signer.Service, fields *field.Service, notifier session.Notifier) *Service {
	return &Service{store: st, signers: signers, fields: fields, notifier: notifier}
}

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Order int    `json:"order"`
}

type FieldDef struct {
	RecipientEmail string  `json:"recipient_email"`
	Type           string  `json:"type"`
	Page           int     `json:"page"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Required       bool    `json:"required"`
}

type SendRequest struct {
	Recipients []Recipient `json:"recipients"`
	Fields     []FieldDef  `json:"fields"`
}

type SendResult struct {
	Signers  []signer.RegisteredSigner `json:"signers"`
	Fields   int                       `json:"fields_created"`
	Notified int                       `json:"notified"`
}

// Send registers the recipients, lays out their fields, stamps the send
// timestamp, and queues notifications for everyone at the lowest order.
func (s *Service) Send(ctx context.Context, documentID uuid.UUID, req SendRequest) (*SendResult, error) {
	if len(req.Recipients) == 0 {
		return nil, fmt.Errorf("envelope needs at least one recipient")
	}

	entries := make([]signer.NewSigner, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		entries = append(entries, signer.NewSigner{Name: r.Name, Email: r.Email, Order: r.Order})
	}

	registered, err := s.signers.AddSigners(ctx, documentID, entries)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]uuid.UUID, len(registered))
	minOrder := registered[0].SigningOrder
	for _, sg := range registered {
		byEmail[sg.Email] = sg.ID
		if sg.SigningOrder < minOrder {
			minOrder = sg.SigningOrder
		}
	}

	created := 0
	for _, fd := range req.Fields {
		signerID, ok := byEmail[strings.ToLower(strings.TrimSpace(fd.RecipientEmail))]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRecipient, fd.RecipientEmail)
		}
		_, err := s.fields.Create(ctx, field.CreateRequest{
			DocumentID: documentID,
			SignerID:   signerID,
			FieldType:  fd.Type,
			Page:       fd.Page,
			X:          fd.X,
			Y:          fd.Y,
			Width:      fd.Width,
			Height:     fd.Height,
			Required:   fd.Required,
		})
		if err != nil {
			return nil, err
		}
		created++
	}

	if err := s.store.MarkDocumentSent(ctx, documentID, time.Now().UTC()); err != nil {
		return nil, err
	}

	notified := 0
	for _, sg := range registered {
		if sg.SigningOrder != minOrder || sg.Status != models.SignerStatusPending {
			continue
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.NotifySigner(ctx, sg.ID); err != nil {
			slog.Warn("could not enqueue signer notification", "signer_id", sg.ID, "error", err)
			continue
		}
		notified++
	}

	return &SendResult{Signers: registered, Fields: created, Notified: notified}, nil
}
