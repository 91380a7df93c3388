// Package completion decides when a document is fully executed and who to
// notify next.
package completion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/models"
	"github.com/jobinvoicer/esign/internal/store"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

type Outcome struct {
	Completed   bool
	SignedCount int
	Total       int
	// NextTargets are the pending signers eligible for notification: every
	// pending signer at the lowest order among not-yet-signed signers.
	// Later-order signers are never notified while earlier ones are
	// outstanding; parallel signers sharing an order are notified together.
	NextTargets []models.Signer
}

// Evaluate recomputes document status from the full signer set. The document
// is complete iff every signer is signed, regardless of order. Re-evaluating
// an already-complete document is a no-op: completed_at never regresses and
// the status never moves backward.
func (e *Engine) Evaluate(ctx context.Context, st store.Store, documentID uuid.UUID) (*Outcome, error) {
	signers, err := st.ListSigners(ctx, documentID)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Total: len(signers)}
	for _, sg := range signers {
		if sg.Status == models.SignerStatusSigned {
			out.SignedCount++
		}
	}

	if out.Total > 0 && out.SignedCount == out.Total {
		out.Completed = true
		if err := st.MarkDocumentCompleted(ctx, documentID, time.Now().UTC()); err != nil {
			return nil, err
		}
		return out, nil
	}

	if out.SignedCount > 0 {
		// Status moves forward only: a completed document stays completed even
		// if a signer re-opens to draft afterwards.
		doc, err := st.GetDocument(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if doc.Status != models.DocStatusCompleted {
			if err := st.SetDocumentStatus(ctx, documentID, models.DocStatusPartiallySigned); err != nil {
				return nil, err
			}
		}
	}

	// Lowest order among signers still owing a signature gates who may be
	// notified; draft signers hold that gate without being re-notified.
	minOrder := 0
	for _, sg := range signers {
		if sg.Status == models.SignerStatusSigned {
			continue
		}
		if minOrder == 0 || sg.SigningOrder < minOrder {
			minOrder = sg.SigningOrder
		}
	}
	for _, sg := range signers {
		if sg.Status == models.SignerStatusPending && sg.SigningOrder == minOrder {
			out.NextTargets = append(out.NextTargets, sg)
		}
	}

	return out, nil
}
