package invoice

import (
	"context"
	"time"
)

type InvoiceRepository interface {
	// Create persists a new invoice. The caller is expected to have
	// allocated the invoice number via NextInvoiceNumber inside the same
	// transaction.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invID uint) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error

	// NextInvoiceNumber atomically advances the invoice sequence and
	// returns the next value. Sequence values never collide or regress,
	// even under concurrent invoice creation.
	NextInvoiceNumber(ctx context.Context) (int64, error)

	// FindSettlementTarget returns the invoice a payment should settle:
	// the subscription's unpaid, partially paid, or overdue invoice with
	// the most recent due date (undated invoices last), ties broken by
	// most recent creation. Returns nil when no such invoice exists.
	FindSettlementTarget(ctx context.Context, subscriptionID uint) (*Invoice, error)

	// FindLatestBySubscription returns the most recently created invoice
	// regardless of status, or nil when the subscription has none.
	FindLatestBySubscription(ctx context.Context, subscriptionID uint) (*Invoice, error)

	// ListBySubscription returns all invoices for a subscription, newest
	// first.
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*Invoice, error)

	// ArchiveStale archives unpaid and overdue invoices created before
	// the cutoff, appending the audit note. Returns the number archived.
	ArchiveStale(ctx context.Context, subscriptionID uint, cutoff time.Time, note string) (int64, error)

	// MarkOverdueDue flags unpaid invoices whose due date passed before
	// now. Returns the number flagged.
	MarkOverdueDue(ctx context.Context, now time.Time) (int64, error)
}
