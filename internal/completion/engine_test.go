package completion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store/memory"
)

func seedDocument(t *testing.T, mem *memory.Store) uuid.UUID {
	t.Helper()
	doc := &models.Document{ID: uuid.New(), Name: "Contract", Status: models.DocStatusPending}
	if err := mem.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc.ID
}

func seedSigner(t *testing.T, mem *memory.Store, docID uuid.UUID, email, status string, order int) uuid.UUID {
	t.Helper()
	sg := &models.Signer{
		ID:           uuid.New(),
		DocumentID:   docID,
		Name:         email,
		Email:        email,
		SigningOrder: order,
		Status:       status,
	}
	if err := mem.CreateSigners(context.Background(), []*models.Signer{sg}); err != nil {
		t.Fatalf("create signer: %v", err)
	}
	return sg.ID
}

func TestEvaluateAllSignedCompletes(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "a@example.com", models.SignerStatusSigned, 1)
	seedSigner(t, mem, docID, "b@example.com", models.SignerStatusSigned, 2)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !out.Completed || out.SignedCount != 2 || out.Total != 2 {
		t.Fatalf("outcome %+v, want completed 2/2", out)
	}

	doc, _ := mem.GetDocument(context.Background(), docID)
	if doc.Status != models.DocStatusCompleted || doc.CompletedAt == nil {
		t.Errorf("document not finalized: status=%q completed_at=%v", doc.Status, doc.CompletedAt)
	}
}

func TestEvaluateCompletedAtDoesNotRegress(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "a@example.com", models.SignerStatusSigned, 1)

	eng := NewEngine()
	if _, err := eng.Evaluate(context.Background(), mem, docID); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	first, _ := mem.GetDocument(context.Background(), docID)

	time.Sleep(5 * time.Millisecond)
	if _, err := eng.Evaluate(context.Background(), mem, docID); err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	second, _ := mem.GetDocument(context.Background(), docID)

	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("completed_at moved from %v to %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestEvaluateCompletedDocumentDoesNotDowngrade(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	alice := seedSigner(t, mem, docID, "a@example.com", models.SignerStatusSigned, 1)
	bob := seedSigner(t, mem, docID, "b@example.com", models.SignerStatusSigned, 2)

	eng := NewEngine()
	if _, err := eng.Evaluate(context.Background(), mem, docID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	completed, _ := mem.GetDocument(context.Background(), docID)
	if completed.Status != models.DocStatusCompleted {
		t.Fatalf("setup: document status %q", completed.Status)
	}

	// Both signers re-open to draft, one re-signs. The document must stay
	// completed through the re-evaluation.
	if err := mem.SetSignerStatus(context.Background(), alice, models.SignerStatusDraft, nil); err != nil {
		t.Fatalf("re-open alice: %v", err)
	}
	if err := mem.SetSignerStatus(context.Background(), bob, models.SignerStatusDraft, nil); err != nil {
		t.Fatalf("re-open bob: %v", err)
	}
	now := time.Now().UTC()
	if err := mem.SetSignerStatus(context.Background(), alice, models.SignerStatusSigned, &now); err != nil {
		t.Fatalf("re-sign alice: %v", err)
	}

	out, err := eng.Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if out.Completed {
		t.Error("outcome reports completed with a draft signer outstanding")
	}

	doc, _ := mem.GetDocument(context.Background(), docID)
	if doc.Status != models.DocStatusCompleted {
		t.Errorf("document status regressed to %q", doc.Status)
	}
	if !doc.CompletedAt.Equal(*completed.CompletedAt) {
		t.Errorf("completed_at moved from %v to %v", completed.CompletedAt, doc.CompletedAt)
	}
}

func TestEvaluatePartialSigning(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "a@example.com", models.SignerStatusSigned, 1)
	bob := seedSigner(t, mem, docID, "b@example.com", models.SignerStatusPending, 2)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Completed {
		t.Fatal("document complete with one pending signer")
	}

	doc, _ := mem.GetDocument(context.Background(), docID)
	if doc.Status != models.DocStatusPartiallySigned {
		t.Errorf("document status %q, want partially_signed", doc.Status)
	}
	if len(out.NextTargets) != 1 || out.NextTargets[0].ID != bob {
		t.Errorf("next targets %v, want just the pending signer", out.NextTargets)
	}
}

func TestEvaluateNextTargetsRespectsOrder(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "first@example.com", models.SignerStatusPending, 1)
	seedSigner(t, mem, docID, "second@example.com", models.SignerStatusPending, 2)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(out.NextTargets) != 1 || out.NextTargets[0].Email != "first@example.com" {
		t.Errorf("later signer targeted while earlier is outstanding: %v", out.NextTargets)
	}
}

func TestEvaluateParallelSignersShareOrder(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "a@example.com", models.SignerStatusPending, 1)
	seedSigner(t, mem, docID, "b@example.com", models.SignerStatusPending, 1)
	seedSigner(t, mem, docID, "c@example.com", models.SignerStatusPending, 2)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(out.NextTargets) != 2 {
		t.Fatalf("expected both order-1 signers targeted, got %d", len(out.NextTargets))
	}
	for _, sg := range out.NextTargets {
		if sg.SigningOrder != 1 {
			t.Errorf("order-%d signer targeted too early", sg.SigningOrder)
		}
	}
}

func TestEvaluateDraftHoldsTheGate(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)
	seedSigner(t, mem, docID, "a@example.com", models.SignerStatusDraft, 1)
	seedSigner(t, mem, docID, "b@example.com", models.SignerStatusPending, 2)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// The draft signer still owes a signature, so the order-2 signer must not
	// be notified; the draft signer is not re-notified either.
	if len(out.NextTargets) != 0 {
		t.Errorf("expected no targets while a draft gates order 1, got %v", out.NextTargets)
	}
}

func TestEvaluateNoSigners(t *testing.T) {
	mem := memory.New()
	docID := seedDocument(t, mem)

	out, err := NewEngine().Evaluate(context.Background(), mem, docID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Completed {
		t.Error("document with zero signers must not complete")
	}
}
