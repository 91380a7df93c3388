package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

const documentCols = `id, name, file_path, file_type, file_size_bytes, status, metadata, created_by, created_at, sent_at, completed_at`

func (s *Store) CreateDocument(ctx context.Context, doc *models.Document) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO documents (id, name, file_path, file_type, file_size_bytes, status, metadata, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		doc.ID, doc.Name, doc.FilePath, doc.FileType, doc.FileSizeBytes, doc.Status, doc.Metadata, doc.CreatedBy,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	err := s.q.QueryRow(ctx,
		`SELECT `+documentCols+` FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.FilePath, &d.FileType, &d.FileSizeBytes, &d.Status, &d.Metadata, &d.CreatedBy, &d.CreatedAt, &d.SentAt, &d.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", mapErr(err))
	}
	return &d, nil
}

func (s *Store) ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+documentCols+` FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.FilePath, &d.FileType, &d.FileSizeBytes, &d.Status, &d.Metadata, &d.CreatedBy, &d.CreatedAt, &d.SentAt, &d.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete document: %w", store.ErrNotFound)
	}
	return nil
}

func (s *Store) SetDocumentStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.q.Exec(ctx, `UPDATE documents SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

func (s *Store) MarkDocumentSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.q.Exec(ctx,
		`UPDATE documents SET sent_at = COALESCE(sent_at, $1) WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("mark document sent: %w", err)
	}
	return nil
}

func (s *Store) MarkDocumentCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.q.Exec(ctx,
		`UPDATE documents SET status = $1, completed_at = COALESCE(completed_at, $2) WHERE id = $3`,
		models.DocStatusCompleted, at, id)
	if err != nil {
		return fmt.Errorf("mark document completed: %w", err)
	}
	return nil
}
