// Package memory implements store.Store with in-process maps. It exists for
// tests; the transactional guarantee is a single mutex, which is enough for
// single-process test scenarios.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*models.Document
	signers   map[uuid.UUID]*models.Signer
	fields    map[uuid.UUID]*models.SignatureField
	events    []models.SignatureEvent
	fieldSeq  int64
	fieldPos  map[uuid.UUID]int64 // insertion order for stable listing
}

func New() *Store {
	return &Store{
		documents: make(map[uuid.UUID]*models.Document),
		signers:   make(map[uuid.UUID]*models.Signer),
		fields:    make(map[uuid.UUID]*models.SignatureField),
		fieldPos:  make(map[uuid.UUID]int64),
	}
}

func (m *Store) CreateDocument(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	cp := *doc
	m.documents[doc.ID] = &cp
	return nil
}

func (m *Store) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, fmt.Errorf("get document: %w", store.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (m *Store) ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []models.Document
	for _, d := range m.documents {
		docs = append(docs, *d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	if offset >= len(docs) {
		return nil, nil
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return fmt.Errorf("delete document: %w", store.ErrNotFound)
	}
	delete(m.documents, id)
	for sid, sg := range m.signers {
		if sg.DocumentID == id {
			delete(m.signers, sid)
		}
	}
	for fid, f := range m.fields {
		if f.DocumentID == id {
			delete(m.fields, fid)
			delete(m.fieldPos, fid)
		}
	}
	return nil
}

func (m *Store) SetDocumentStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return fmt.Errorf("update document status: %w", store.ErrNotFound)
	}
	d.Status = status
	return nil
}

func (m *Store) MarkDocumentSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return fmt.Errorf("mark document sent: %w", store.ErrNotFound)
	}
	if d.SentAt == nil {
		d.SentAt = &at
	}
	return nil
}

func (m *Store) MarkDocumentCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return fmt.Errorf("mark document completed: %w", store.ErrNotFound)
	}
	d.Status = models.DocStatusCompleted
	if d.CompletedAt == nil {
		d.CompletedAt = &at
	}
	return nil
}

func (m *Store) CreateSigners(ctx context.Context, signers []*models.Signer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sg := range signers {
		cp := *sg
		m.signers[sg.ID] = &cp
	}
	return nil
}

func (m *Store) ListSigners(ctx context.Context, documentID uuid.UUID) ([]models.Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var signers []models.Signer
	for _, sg := range m.signers {
		if sg.DocumentID == documentID {
			signers = append(signers, *sg)
		}
	}
	sort.Slice(signers, func(i, j int) bool {
		if signers[i].SigningOrder != signers[j].SigningOrder {
			return signers[i].SigningOrder < signers[j].SigningOrder
		}
		return signers[i].Email < signers[j].Email
	})
	return signers, nil
}

func (m *Store) GetSigner(ctx context.Context, id uuid.UUID) (*models.Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sg, ok := m.signers[id]
	if !ok {
		return nil, fmt.Errorf("get signer: %w", store.ErrNotFound)
	}
	cp := *sg
	return &cp, nil
}

func (m *Store) GetSignerByToken(ctx context.Context, token string) (*models.Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sg := range m.signers {
		if sg.Token == token {
			cp := *sg
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get signer by token: %w", store.ErrNotFound)
}

func (m *Store) SetSignerStatus(ctx context.Context, id uuid.UUID, status string, signedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sg, ok := m.signers[id]
	if !ok {
		return fmt.Errorf("update signer status: %w", store.ErrNotFound)
	}
	sg.Status = status
	sg.SignedAt = signedAt
	return nil
}

func (m *Store) CreateField(ctx context.Context, f *models.SignatureField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	cp := *f
	m.fields[f.ID] = &cp
	m.fieldSeq++
	m.fieldPos[f.ID] = m.fieldSeq
	return nil
}

func (m *Store) GetField(ctx context.Context, id uuid.UUID) (*models.SignatureField, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fields[id]
	if !ok {
		return nil, fmt.Errorf("get signature field: %w", store.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (m *Store) ListFieldsForDocument(ctx context.Context, documentID uuid.UUID) ([]models.FieldWithSigner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var fields []models.FieldWithSigner
	for _, f := range m.fields {
		if f.DocumentID != documentID {
			continue
		}
		fw := models.FieldWithSigner{SignatureField: *f}
		if sg, ok := m.signers[f.SignerID]; ok {
			fw.SignerName = sg.Name
			fw.SignerEmail = sg.Email
		}
		fields = append(fields, fw)
	}
	sort.Slice(fields, func(i, j int) bool {
		return m.fieldPos[fields[i].ID] < m.fieldPos[fields[j].ID]
	})
	return fields, nil
}

func (m *Store) SetFieldValue(ctx context.Context, id uuid.UUID, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields[id]
	if !ok {
		return fmt.Errorf("set field value: %w", store.ErrNotFound)
	}
	v := value
	f.Value = &v
	return nil
}

func (m *Store) DeleteField(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fields[id]; !ok {
		return fmt.Errorf("delete signature field: %w", store.ErrNotFound)
	}
	delete(m.fields, id)
	delete(m.fieldPos, id)
	return nil
}

func (m *Store) AppendEvent(ctx context.Context, e *models.SignatureEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *Store) ListEvents(ctx context.Context, documentID uuid.UUID) ([]models.SignatureEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []models.SignatureEvent
	for _, e := range m.events {
		if e.DocumentID == documentID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *Store) Tx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}
