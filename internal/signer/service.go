// Package signer manages the ordered list of people expected to act on a
// document. Each signer is identified by a bearer token, not a login.
package signer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

var (
	ErrTokenExpired   = errors.New("signing token expired")
	ErrDuplicateEmail = errors.New("duplicate signer email")
)

const tokenBytes = 32

type Service struct {
	store    store.Store
	baseURL  string
	tokenTTL time.Duration
}

func NewService(st store.Store, baseURL string, tokenTTL time.Duration) *Service {
	return &Service{store: st, baseURL: baseURL, tokenTTL: tokenTTL}
}

type NewSigner struct {
	Name  string
	Email string
	Order int // 0 means: position in the input array, 1-indexed
}

type RegisteredSigner struct {
	models.Signer
	SigningLink string `json:"signing_link"`
}

// AddSigners registers signers in input order, issuing each a random token
// with an expiry. Registering the first signer advances a draft document to
// pending.
func (s *Service) AddSigners(ctx context.Context, documentID uuid.UUID, entries []NewSigner) ([]RegisteredSigner, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		email := strings.ToLower(strings.TrimSpace(e.Email))
		if seen[email] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, e.Email)
		}
		seen[email] = true
	}

	now := time.Now().UTC()
	signers := make([]*models.Signer, 0, len(entries))
	for i, e := range entries {
		token, err := generateToken()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
		order := e.Order
		if order <= 0 {
			order = i + 1
		}
		signers = append(signers, &models.Signer{
			ID:             uuid.New(),
			DocumentID:     documentID,
			Name:           strings.TrimSpace(e.Name),
			Email:          strings.ToLower(strings.TrimSpace(e.Email)),
			SigningOrder:   order,
			Status:         models.SignerStatusPending,
			Token:          token,
			TokenExpiresAt: now.Add(s.tokenTTL),
		})
	}

	err = s.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.CreateSigners(ctx, signers); err != nil {
			return err
		}
		if doc.Status == models.DocStatusDraft {
			return tx.SetDocumentStatus(ctx, documentID, models.DocStatusPending)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]RegisteredSigner, 0, len(signers))
	for _, sg := range signers {
		out = append(out, RegisteredSigner{Signer: *sg, SigningLink: s.SigningLink(sg.Token)})
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, documentID uuid.UUID) ([]models.Signer, error) {
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.store.ListSigners(ctx, documentID)
}

// ResolveByToken returns the signer holding the token and its parent
// document. Expired tokens are rejected.
func (s *Service) ResolveByToken(ctx context.Context, token string) (*models.Signer, *models.Document, error) {
	sg, err := s.store.GetSignerByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if time.Now().After(sg.TokenExpiresAt) {
		return nil, nil, ErrTokenExpired
	}
	doc, err := s.store.GetDocument(ctx, sg.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	return sg, doc, nil
}

func (s *Service) SigningLink(token string) string {
	return s.baseURL + "/sign/" + token
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
