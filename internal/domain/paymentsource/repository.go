package paymentsource

import (
	"context"

	vo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
)

type PaymentSourceRepository interface {
	Create(ctx context.Context, ps *PaymentSource) error
	GetBySourceID(ctx context.Context, sourceID string) (*PaymentSource, error)

	// UpdateStatus applies a conditional status write and returns the
	// status the row held before this call together with the updated
	// record. The write never regresses a completed source; the raw
	// payload is retained for audit on every delivery. The previous
	// status is what lets the caller distinguish the first transition to
	// completed from a redelivery without a separate read.
	UpdateStatus(ctx context.Context, sourceID string, status vo.SourceStatus, rawPayload map[string]interface{}) (vo.SourceStatus, *PaymentSource, error)

	// ResolveInvoiceFallback links an unlinked source to the most
	// recently created unpaid invoice from the current business day,
	// provided that invoice is not already claimed by another source.
	// Idempotent: an already linked source is returned unchanged.
	ResolveInvoiceFallback(ctx context.Context, sourceID string) (*PaymentSource, error)

	// ListUnresolvedCompleted returns completed sources that never got
	// an invoice link, the queue for manual reconciliation.
	ListUnresolvedCompleted(ctx context.Context) ([]*PaymentSource, error)
}
