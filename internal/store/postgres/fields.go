package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

const fieldCols = `id, document_id, signer_id, field_type, page, x, y, width, height, required, value, created_at`

func (s *Store) CreateField(ctx context.Context, f *models.SignatureField) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO signature_fields (id, document_id, signer_id, field_type, page, x, y, width, height, required, value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		f.ID, f.DocumentID, f.SignerID, f.FieldType, f.Page, f.X, f.Y, f.Width, f.Height, f.Required, f.Value,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert signature field: %w", err)
	}
	return nil
}

func (s *Store) GetField(ctx context.Context, id uuid.UUID) (*models.SignatureField, error) {
	var f models.SignatureField
	err := s.q.QueryRow(ctx,
		`SELECT `+fieldCols+` FROM signature_fields WHERE id = $1`, id,
	).Scan(&f.ID, &f.DocumentID, &f.SignerID, &f.FieldType, &f.Page, &f.X, &f.Y, &f.Width, &f.Height, &f.Required, &f.Value, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get signature field: %w", mapErr(err))
	}
	return &f, nil
}

func (s *Store) ListFieldsForDocument(ctx context.Context, documentID uuid.UUID) ([]models.FieldWithSigner, error) {
	rows, err := s.q.Query(ctx,
		`SELECT f.id, f.document_id, f.signer_id, f.field_type, f.page, f.x, f.y, f.width, f.height, f.required, f.value, f.created_at,
		        sg.name, sg.email
		 FROM signature_fields f
		 JOIN signers sg ON sg.id = f.signer_id
		 WHERE f.document_id = $1
		 ORDER BY f.created_at ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list signature fields: %w", err)
	}
	defer rows.Close()

	var fields []models.FieldWithSigner
	for rows.Next() {
		var f models.FieldWithSigner
		if err := rows.Scan(&f.ID, &f.DocumentID, &f.SignerID, &f.FieldType, &f.Page, &f.X, &f.Y, &f.Width, &f.Height, &f.Required, &f.Value, &f.CreatedAt, &f.SignerName, &f.SignerEmail); err != nil {
			return nil, fmt.Errorf("scan signature field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (s *Store) SetFieldValue(ctx context.Context, id uuid.UUID, value string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE signature_fields SET value = $1 WHERE id = $2`, value, id)
	if err != nil {
		return fmt.Errorf("set field value: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set field value: %w", store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteField(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM signature_fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete signature field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete signature field: %w", store.ErrNotFound)
	}
	return nil
}
