package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/completion"
	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store/memory"
)

type fakeNotifier struct {
	signerIDs    []uuid.UUID
	completedIDs []uuid.UUID
}

func (f *fakeNotifier) NotifySigner(ctx context.Context, signerID uuid.UUID) error {
	f.signerIDs = append(f.signerIDs, signerID)
	return nil
}

func (f *fakeNotifier) NotifyCompleted(ctx context.Context, documentID uuid.UUID) error {
	f.completedIDs = append(f.completedIDs, documentID)
	return nil
}

type fixture struct {
	mem      *memory.Store
	svc      *Service
	notifier *fakeNotifier
	doc      *models.Document
	signers  []signer.RegisteredSigner
}

func newFixture(t *testing.T, entries ...signer.NewSigner) *fixture {
	t.Helper()
	mem := memory.New()
	doc := &models.Document{ID: uuid.New(), Name: "Invoice", Status: models.DocStatusDraft}
	if err := mem.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	signerSvc := signer.NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	registered, err := signerSvc.AddSigners(context.Background(), doc.ID, entries)
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}

	notifier := &fakeNotifier{}
	svc := NewService(mem, signerSvc, completion.NewEngine(), notifier)
	return &fixture{mem: mem, svc: svc, notifier: notifier, doc: doc, signers: registered}
}

func TestGetSession(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	view, err := fx.svc.GetSession(context.Background(), fx.signers[0].Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if view.Document.ID != fx.doc.ID {
		t.Errorf("wrong document in session view")
	}
	if view.Signer.Email != "alice@example.com" || view.Signer.Status != models.SignerStatusPending {
		t.Errorf("unexpected signer summary: %+v", view.Signer)
	}
}

func TestSubmitDraftDoesNotSign(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	res, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:         fx.signers[0].Token,
		SignatureData: "data:image/png;base64,aGVsbG8=",
		Position:      Position{Page: 1, X: 50, Y: 100},
		Action:        ActionDraft,
	})
	if err != nil {
		t.Fatalf("submit draft: %v", err)
	}
	if res.Message != "Draft saved" {
		t.Errorf("message %q", res.Message)
	}
	if res.Completed {
		t.Error("draft must never complete the document")
	}

	sg, err := fx.mem.GetSigner(context.Background(), fx.signers[0].ID)
	if err != nil {
		t.Fatalf("get signer: %v", err)
	}
	if sg.Status != models.SignerStatusDraft {
		t.Errorf("signer status %q, want draft", sg.Status)
	}
	if sg.SignedAt != nil {
		t.Error("draft must not set signed_at")
	}

	doc, _ := fx.mem.GetDocument(context.Background(), fx.doc.ID)
	if doc.Status == models.DocStatusCompleted {
		t.Error("document completed off a draft")
	}
	if len(fx.notifier.completedIDs) != 0 || len(fx.notifier.signerIDs) != 0 {
		t.Error("draft must not dispatch notifications")
	}
}

func TestSubmitSingleSignerCompletes(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	res, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:         fx.signers[0].Token,
		SignatureData: "sig",
		Position:      Position{Page: 1, X: 50, Y: 100},
		Action:        ActionSave,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Completed {
		t.Fatal("sole signer signing must complete the document")
	}
	if res.Message != "Document completed! All signers have signed." {
		t.Errorf("message %q", res.Message)
	}

	doc, _ := fx.mem.GetDocument(context.Background(), fx.doc.ID)
	if doc.Status != models.DocStatusCompleted {
		t.Errorf("document status %q, want completed", doc.Status)
	}
	if doc.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if len(fx.notifier.completedIDs) != 1 || fx.notifier.completedIDs[0] != fx.doc.ID {
		t.Errorf("completion notification not dispatched: %v", fx.notifier.completedIDs)
	}
}

func TestSubmitTwoSignerFlow(t *testing.T) {
	fx := newFixture(t,
		signer.NewSigner{Name: "Alice", Email: "alice@example.com", Order: 1},
		signer.NewSigner{Name: "Bob", Email: "bob@example.com", Order: 2},
	)

	// First signer signs and forwards.
	res, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:    fx.signers[0].Token,
		Position: Position{Page: 1, X: 50, Y: 100},
		Action:   ActionSaveAndSend,
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if res.Completed {
		t.Fatal("document complete with one of two signatures")
	}
	if res.Message != "Document signed and sent to next signer" {
		t.Errorf("message %q", res.Message)
	}

	doc, _ := fx.mem.GetDocument(context.Background(), fx.doc.ID)
	if doc.Status != models.DocStatusPartiallySigned {
		t.Errorf("document status %q, want partially_signed", doc.Status)
	}
	if len(fx.notifier.signerIDs) != 1 || fx.notifier.signerIDs[0] != fx.signers[1].ID {
		t.Errorf("expected notification for second signer, got %v", fx.notifier.signerIDs)
	}

	// Second signer finishes.
	res, err = fx.svc.Submit(context.Background(), SubmitRequest{
		Token:    fx.signers[1].Token,
		Position: Position{Page: 1, X: 50, Y: 300},
		Action:   ActionSave,
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !res.Completed {
		t.Fatal("all signers signed, document should be complete")
	}

	doc, _ = fx.mem.GetDocument(context.Background(), fx.doc.ID)
	if doc.Status != models.DocStatusCompleted || doc.CompletedAt == nil {
		t.Errorf("document not finalized: status=%q completed_at=%v", doc.Status, doc.CompletedAt)
	}
	if len(fx.notifier.completedIDs) != 1 {
		t.Errorf("expected one completion notification, got %d", len(fx.notifier.completedIDs))
	}
}

func TestSubmitRejectsSecondSignature(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	req := SubmitRequest{
		Token:    fx.signers[0].Token,
		Position: Position{Page: 1, X: 50, Y: 100},
		Action:   ActionSave,
	}
	if _, err := fx.svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := fx.svc.Submit(context.Background(), req); !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("expected ErrAlreadySigned, got %v", err)
	}
}

func TestSubmitReopenSignedToDraft(t *testing.T) {
	fx := newFixture(t,
		signer.NewSigner{Name: "Alice", Email: "alice@example.com", Order: 1},
		signer.NewSigner{Name: "Bob", Email: "bob@example.com", Order: 2},
	)

	if _, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:    fx.signers[0].Token,
		Position: Position{Page: 1},
		Action:   ActionSave,
	}); err != nil {
		t.Fatalf("sign: %v", err)
	}

	// A signed signer may re-open to draft.
	if _, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:    fx.signers[0].Token,
		Position: Position{Page: 1},
		Action:   ActionDraft,
	}); err != nil {
		t.Fatalf("re-open to draft: %v", err)
	}

	sg, _ := fx.mem.GetSigner(context.Background(), fx.signers[0].ID)
	if sg.Status != models.SignerStatusDraft {
		t.Errorf("signer status %q after re-open, want draft", sg.Status)
	}
	if sg.SignedAt != nil {
		t.Error("re-opening should clear signed_at")
	}
}

func TestSubmitAppliesDefaultBox(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	res, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:    fx.signers[0].Token,
		Position: Position{X: 10, Y: 20}, // no page, no dimensions
		Action:   ActionSave,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Field == nil {
		t.Fatal("submit should return the created field")
	}
	if res.Field.Page != 1 {
		t.Errorf("page %d, want default 1", res.Field.Page)
	}
	if res.Field.Width != 200 || res.Field.Height != 80 {
		t.Errorf("box %vx%v, want 200x80", res.Field.Width, res.Field.Height)
	}
}

func TestSubmitRecordsEvent(t *testing.T) {
	fx := newFixture(t, signer.NewSigner{Name: "Alice", Email: "alice@example.com"})

	if _, err := fx.svc.Submit(context.Background(), SubmitRequest{
		Token:     fx.signers[0].Token,
		Position:  Position{Page: 1},
		Action:    ActionSave,
		IPAddress: "203.0.113.7",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	events, err := fx.mem.ListEvents(context.Background(), fx.doc.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != models.EventSigned {
		t.Errorf("event type %q, want signed", e.EventType)
	}
	if e.ActorEmail != "alice@example.com" {
		t.Errorf("actor email %q, want alice@example.com", e.ActorEmail)
	}
	if e.IPAddress != "203.0.113.7" {
		t.Errorf("ip %q, want 203.0.113.7", e.IPAddress)
	}
}
