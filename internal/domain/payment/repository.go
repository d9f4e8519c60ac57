package payment

import "context"

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	ListByInvoiceID(ctx context.Context, invoiceID uint) ([]*Payment, error)
	// SumByInvoiceID returns the total settled centavos against an
	// invoice.
	SumByInvoiceID(ctx context.Context, invoiceID uint) (int64, error)
	// ExistsByInvoiceAndReference reports whether a payment with this
	// reference was already applied to the invoice. This is the dedup
	// check that keeps redelivered gateway events from writing a second
	// ledger row.
	ExistsByInvoiceAndReference(ctx context.Context, invoiceID uint, referenceNumber string) (bool, error)
}
