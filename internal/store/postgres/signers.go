package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

const signerCols = `id, document_id, name, email, signing_order, status, token, token_expires_at, signed_at`

func (s *Store) CreateSigners(ctx context.Context, signers []*models.Signer) error {
	for _, sg := range signers {
		_, err := s.q.Exec(ctx,
			`INSERT INTO signers (id, document_id, name, email, signing_order, status, token, token_expires_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			sg.ID, sg.DocumentID, sg.Name, sg.Email, sg.SigningOrder, sg.Status, sg.Token, sg.TokenExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("insert signer %s: %w", sg.Email, err)
		}
	}
	return nil
}

func (s *Store) ListSigners(ctx context.Context, documentID uuid.UUID) ([]models.Signer, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+signerCols+` FROM signers WHERE document_id = $1 ORDER BY signing_order ASC, email ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list signers: %w", err)
	}
	defer rows.Close()

	var signers []models.Signer
	for rows.Next() {
		var sg models.Signer
		if err := rows.Scan(&sg.ID, &sg.DocumentID, &sg.Name, &sg.Email, &sg.SigningOrder, &sg.Status, &sg.Token, &sg.TokenExpiresAt, &sg.SignedAt); err != nil {
			return nil, fmt.Errorf("scan signer: %w", err)
		}
		signers = append(signers, sg)
	}
	return signers, rows.Err()
}

func (s *Store) GetSigner(ctx context.Context, id uuid.UUID) (*models.Signer, error) {
	var sg models.Signer
	err := s.q.QueryRow(ctx,
		`SELECT `+signerCols+` FROM signers WHERE id = $1`, id,
	).Scan(&sg.ID, &sg.DocumentID, &sg.Name, &sg.Email, &sg.SigningOrder, &sg.Status, &sg.Token, &sg.TokenExpiresAt, &sg.SignedAt)
	if err != nil {
		return nil, fmt.Errorf("get signer: %w", mapErr(err))
	}
	return &sg, nil
}

func (s *Store) GetSignerByToken(ctx context.Context, token string) (*models.Signer, error) {
	var sg models.Signer
	err := s.q.QueryRow(ctx,
		`SELECT `+signerCols+` FROM signers WHERE token = $1`, token,
	).Scan(&sg.ID, &sg.DocumentID, &sg.Name, &sg.Email, &sg.SigningOrder, &sg.Status, &sg.Token, &sg.TokenExpiresAt, &sg.SignedAt)
	if err != nil {
		return nil, fmt.Errorf("get signer by token: %w", mapErr(err))
	}
	return &sg, nil
}

func (s *Store) SetSignerStatus(ctx context.Context, id uuid.UUID, status string, signedAt *time.Time) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE signers SET status = $1, signed_at = $2 WHERE id = $3`,
		status, signedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update signer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update signer status: %w", store.ErrNotFound)
	}
	return nil
}
