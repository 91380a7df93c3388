// Package session implements the token-scoped interaction a signer performs
// in one sitting: fetch the document, submit a signature, optionally save a
// draft. There is no login; the token is the identity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/audit"
	"github.com/jobinvoicer/esign/internal/completion"
	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store"
)

var ErrAlreadySigned = errors.New("signer has already signed")

const (
	ActionSave        = "save"
	ActionSaveAndSend = "save_and_send"
	ActionDraft       = "draft"
)

// Default box for a signature submitted without explicit dimensions.
const (
	defaultSignatureWidth  = 200.0
	defaultSignatureHeight = 80.0
)

// Notifier dispatches signing-flow notifications after a submission commits.
type Notifier interface {
	NotifySigner(ctx context.Context, signerID uuid.UUID) error
	NotifyCompleted(ctx context.Context, documentID uuid.UUID) error
}

type Service struct {
	store    store.Store
	signers  *signer.Service
	engine   *completion.Engine
	notifier Notifier
}

func NewService(st store.Store, signers *signer.Service, engine *completion.Engine, notifier Notifier) *Service {
	return &Service{store: st, signers: signers, engine: engine, notifier: notifier}
}

type View struct {
	Document DocumentSummary `json:"document"`
	Signer   SignerSummary   `json:"signer"`
}

type DocumentSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	FilePath string    `json:"file_path"`
	Status   string    `json:"status"`
}

type SignerSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Status string    `json:"status"`
}

func (s *Service) GetSession(ctx context.Context, token string) (*View, error) {
	sg, doc, err := s.signers.ResolveByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &View{
		Document: DocumentSummary{ID: doc.ID, Name: doc.Name, FilePath: doc.FilePath, Status: doc.Status},
		Signer:   SignerSummary{ID: sg.ID, Name: sg.Name, Email: sg.Email, Status: sg.Status},
	}, nil
}

type Position struct {
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type SubmitRequest struct {
	Token         string
	SignatureData string
	Position      Position
	Action        string
	IPAddress     string
}

type SubmitResult struct {
	Message   string            `json:"message"`
	Completed bool              `json:"completed"`
	Signer    SignerSummary     `json:"signer"`
	Field     *models.SignatureField `json:"field,omitempty"`
}

// Submit runs the per-signer state machine:
//
//	pending --draft--> draft
//	pending --save|save_and_send--> signed
//	draft   --save|save_and_send--> signed
//	signed  --draft--> draft          (re-opening is permitted)
//	signed  --save|save_and_send--> ErrAlreadySigned
//
// Every submission creates a fresh signature field; the signer-status update,
// field insert, event append, and document recompute share one transaction.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	sg, _, err := s.signers.ResolveByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if req.Action != ActionDraft && sg.Status == models.SignerStatusSigned {
		return nil, ErrAlreadySigned
	}

	newStatus := models.SignerStatusSigned
	var signedAt *time.Time
	if req.Action == ActionDraft {
		newStatus = models.SignerStatusDraft
	} else {
		now := time.Now().UTC()
		signedAt = &now
	}

	width := req.Position.Width
	if width <= 0 {
		width = defaultSignatureWidth
	}
	height := req.Position.Height
	if height <= 0 {
		height = defaultSignatureHeight
	}
	page := req.Position.Page
	if page < 1 {
		page = 1
	}

	field := &models.SignatureField{
		ID:         uuid.New(),
		DocumentID: sg.DocumentID,
		SignerID:   sg.ID,
		FieldType:  models.FieldTypeSignature,
		Page:       page,
		X:          req.Position.X,
		Y:          req.Position.Y,
		Width:      width,
		Height:     height,
		Required:   true,
		Value:      &req.SignatureData,
	}

	var outcome *completion.Outcome
	err = s.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.CreateField(ctx, field); err != nil {
			return err
		}

		event := audit.NewEvent(audit.Entry{
			DocumentID: sg.DocumentID,
			EventType:  models.EventSigned,
			Details: map[string]interface{}{
				"field_id":   field.ID,
				"field_type": field.FieldType,
				"page":       field.Page,
				"x":          field.X,
				"y":          field.Y,
				"action":     req.Action,
			},
			ActorEmail: sg.Email,
			IPAddress:  req.IPAddress,
		})
		if err := tx.AppendEvent(ctx, event); err != nil {
			return err
		}

		if err := tx.SetSignerStatus(ctx, sg.ID, newStatus, signedAt); err != nil {
			return err
		}

		if newStatus == models.SignerStatusSigned {
			out, err := s.engine.Evaluate(ctx, tx, sg.DocumentID)
			if err != nil {
				return err
			}
			outcome = out
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, sg.DocumentID, req.Action, outcome)

	sg.Status = newStatus
	sg.SignedAt = signedAt
	return &SubmitResult{
		Message:   resultMessage(req.Action, outcome != nil && outcome.Completed),
		Completed: outcome != nil && outcome.Completed,
		Signer:    SignerSummary{ID: sg.ID, Name: sg.Name, Email: sg.Email, Status: sg.Status},
		Field:     field,
	}, nil
}

// dispatch fires notifications after the transaction has committed, so a
// rolled-back submission never emails anyone.
func (s *Service) dispatch(ctx context.Context, documentID uuid.UUID, action string, outcome *completion.Outcome) {
	if s.notifier == nil || outcome == nil {
		return
	}
	if outcome.Completed {
		if err := s.notifier.NotifyCompleted(ctx, documentID); err != nil {
			slog.Warn("could not enqueue completion notification", "document_id", documentID, "error", err)
		}
		return
	}
	if action != ActionSaveAndSend {
		return
	}
	for _, next := range outcome.NextTargets {
		if err := s.notifier.NotifySigner(ctx, next.ID); err != nil {
			slog.Warn("could not enqueue signer notification", "signer_id", next.ID, "error", err)
		}
	}
}

func resultMessage(action string, completed bool) string {
	if completed {
		return "Document completed! All signers have signed."
	}
	switch action {
	case ActionSaveAndSend:
		return "Document signed and sent to next signer"
	case ActionDraft:
		return "Draft saved"
	default:
		return "Document signed successfully"
	}
}
