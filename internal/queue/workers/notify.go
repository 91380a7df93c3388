package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/jobinvoicer/esign/internal/mailer"
	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/queue"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store"
)

// NotifyWorker sends signing-link and completion emails.
type NotifyWorker struct {
	store   store.Store
	signers *signer.Service
	mailer  mailer.Mailer
}

func NewNotifyWorker(st store.Store, signers *signer.Service, m mailer.Mailer) *NotifyWorker {
	return &NotifyWorker{store: st, signers: signers, mailer: m}
}

func (w *NotifyWorker) ProcessSignerNotify(ctx context.Context, t *asynq.Task) error {
	var payload queue.SignerNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	signerID, err := uuid.Parse(payload.SignerID)
	if err != nil {
		return fmt.Errorf("parse signer ID: %w", err)
	}

	sg, err := w.store.GetSigner(ctx, signerID)
	if err != nil {
		return fmt.Errorf("load signer: %w", err)
	}
	if sg.Status == models.SignerStatusSigned {
		slog.Info("skipping notification, signer already signed", "signer_id", signerID)
		return nil
	}
	doc, err := w.store.GetDocument(ctx, sg.DocumentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	link := w.signers.SigningLink(sg.Token)
	subject := fmt.Sprintf("Signature requested: %s", doc.Name)
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>You have been asked to sign <strong>%s</strong>.</p><p><a href="%s">Review and sign the document</a></p><p>This link expires on %s.</p>`,
		sg.Name, doc.Name, link, sg.TokenExpiresAt.Format("January 2, 2006"),
	)

	if err := w.mailer.Send(ctx, sg.Email, subject, body); err != nil {
		return err
	}
	slog.Info("sent signing notification", "signer_id", signerID, "document_id", doc.ID)
	return nil
}

func (w *NotifyWorker) ProcessDocumentCompleted(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocumentCompletedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	documentID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document ID: %w", err)
	}

	doc, err := w.store.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	signers, err := w.store.ListSigners(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load signers: %w", err)
	}

	subject := fmt.Sprintf("Completed: %s", doc.Name)
	body := fmt.Sprintf(
		`<p><strong>%s</strong> has been signed by all parties.</p><p>You will receive the final document from the sender.</p>`,
		doc.Name,
	)

	for _, sg := range signers {
		if err := w.mailer.Send(ctx, sg.Email, subject, body); err != nil {
			slog.Warn("could not send completion email", "signer_id", sg.ID, "error", err)
		}
	}
	slog.Info("sent completion notifications", "document_id", documentID, "recipients", len(signers))
	return nil
}
