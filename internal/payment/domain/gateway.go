package domain

import "context"

// Gateway is the PIX payment backend the reconciliation engine drives.
// CheckStatus and RegisterPayment are idempotent and safe to retry.
type Gateway interface {
	// CreateCharge opens a PIX session for a single billing charge.
	CreateCharge(ctx context.Context, chargeID string) (*Session, error)
	// CreateBatchCharge opens one aggregate PIX session covering every
	// charge in the batch; the gateway returns a single synthetic session.
	CreateBatchCharge(ctx context.Context, chargeIDs []string) (*Session, error)
	CheckStatus(ctx context.Context, sessionID string) (*Session, error)
	RegisterPayment(ctx context.Context, sessionID string) error
	Cancel(ctx context.Context, sessionID string) (*Session, error)
}
