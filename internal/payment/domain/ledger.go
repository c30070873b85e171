package domain

import "context"

// Ledger is the slice of the billing module the payment flow needs: once a
// session settles, the charges it carried are marked paid locally.
type Ledger interface {
	MarkPaid(ctx context.Context, chargeIDs []string) error
}
