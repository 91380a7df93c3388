package signer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
	"github.com/jobinvoicer/esign/internal/store/memory"
)

func newTestDoc(t *testing.T, mem *memory.Store) *models.Document {
	t.Helper()
	doc := &models.Document{
		ID:     uuid.New(),
		Name:   "Service Agreement",
		Status: models.DocStatusDraft,
	}
	if err := mem.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

func TestAddSignersIssuesUniqueTokens(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	doc := newTestDoc(t, mem)

	created, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	})
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 signers, got %d", len(created))
	}

	seen := map[string]bool{}
	for i, sg := range created {
		if len(sg.Token) != tokenBytes*2 {
			t.Errorf("token length %d, want %d hex chars", len(sg.Token), tokenBytes*2)
		}
		if seen[sg.Token] {
			t.Errorf("duplicate token issued")
		}
		seen[sg.Token] = true
		if sg.SigningOrder != i+1 {
			t.Errorf("signer %d order = %d, want %d", i, sg.SigningOrder, i+1)
		}
		if sg.Status != models.SignerStatusPending {
			t.Errorf("signer status %q, want pending", sg.Status)
		}
		if sg.SigningLink != "http://localhost:8080/sign/"+sg.Token {
			t.Errorf("unexpected signing link %q", sg.SigningLink)
		}
	}
}

func TestAddSignersAdvancesDraftDocument(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	doc := newTestDoc(t, mem)

	_, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{{Name: "Alice", Email: "alice@example.com"}})
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}

	got, err := mem.GetDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Status != models.DocStatusPending {
		t.Errorf("document status %q, want pending after first signer", got.Status)
	}
}

func TestAddSignersUnknownDocument(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)

	_, err := svc.AddSigners(context.Background(), uuid.New(), []NewSigner{{Name: "Alice", Email: "a@example.com"}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAddSignersRejectsDuplicateEmails(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	doc := newTestDoc(t, mem)

	_, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Alice Again", Email: "Alice@Example.com"},
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestResolveByToken(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	doc := newTestDoc(t, mem)

	created, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	})
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}

	for _, want := range created {
		sg, gotDoc, err := svc.ResolveByToken(context.Background(), want.Token)
		if err != nil {
			t.Fatalf("resolve token: %v", err)
		}
		if sg.ID != want.ID {
			t.Errorf("token resolved to wrong signer")
		}
		if gotDoc.ID != doc.ID {
			t.Errorf("token resolved to wrong document")
		}
	}

	if _, _, err := svc.ResolveByToken(context.Background(), "deadbeef"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown token should be NotFound, got %v", err)
	}
}

func TestResolveByTokenRejectsExpired(t *testing.T) {
	mem := memory.New()
	// Negative TTL issues tokens already past their expiry.
	svc := NewService(mem, "http://localhost:8080", -time.Hour)
	doc := newTestDoc(t, mem)

	created, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{{Name: "Alice", Email: "alice@example.com"}})
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}

	if _, _, err := svc.ResolveByToken(context.Background(), created[0].Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestListSignersOrdered(t *testing.T) {
	mem := memory.New()
	svc := NewService(mem, "http://localhost:8080", 7*24*time.Hour)
	doc := newTestDoc(t, mem)

	_, err := svc.AddSigners(context.Background(), doc.ID, []NewSigner{
		{Name: "Third", Email: "c@example.com", Order: 3},
		{Name: "First", Email: "a@example.com", Order: 1},
		{Name: "Second", Email: "b@example.com", Order: 2},
	})
	if err != nil {
		t.Fatalf("add signers: %v", err)
	}

	signers, err := svc.List(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("list signers: %v", err)
	}
	for i, sg := range signers {
		if sg.SigningOrder != i+1 {
			t.Errorf("position %d has order %d", i, sg.SigningOrder)
		}
	}
}
