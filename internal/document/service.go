package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/storage"
	"github.com/jobinvoicer/esign/internal/store"
)

type Service struct {
	store   store.Store
	storage storage.Storage
}

func NewService(st store.Store, blobs storage.Storage) *Service {
	return &Service{store: st, storage: blobs}
}

type UploadRequest struct {
	Name       string
	FileName   string
	FileType   string
	FileSize   int64
	Data       io.Reader
	UploadedBy *uuid.UUID
}

// Upload stores the file bytes, records page count in the metadata, and
// creates the document row in draft status.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}

	docID := uuid.New()
	path := fmt.Sprintf("%s/%s", docID, time.Now().Format("20060102")+".pdf")

	if err := s.storage.Upload(ctx, path, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	meta := map[string]interface{}{
		"original_filename": req.FileName,
		"size_bytes":        len(data),
		"mime_type":         req.FileType,
	}
	if pages, err := pageCount(data); err != nil {
		slog.Warn("could not read PDF page count", "document_id", docID, "error", err)
	} else {
		meta["page_count"] = pages
	}
	metadata, _ := json.Marshal(meta)

	doc := &models.Document{
		ID:            docID,
		Name:          req.Name,
		FilePath:      path,
		FileType:      req.FileType,
		FileSizeBytes: int64(len(data)),
		Status:        models.DocStatusDraft,
		Metadata:      metadata,
		CreatedBy:     req.UploadedBy,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.store.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	return s.store.ListDocuments(ctx, limit, offset)
}

// Delete removes the stored file best-effort, then the row. Field and signer
// rows cascade with the document; signature events are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if doc.FilePath != "" {
		if err := s.storage.Delete(ctx, doc.FilePath); err != nil {
			slog.Warn("could not delete stored file", "document_id", id, "path", doc.FilePath, "error", err)
		}
	}

	return s.store.DeleteDocument(ctx, id)
}

// FileBytes loads the original PDF for the stamp engine.
func (s *Service) FileBytes(ctx context.Context, doc *models.Document) ([]byte, error) {
	return s.storage.Download(ctx, doc.FilePath)
}

func pageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open PDF: %w", err)
	}
	return reader.NumPage(), nil
}
