package valueobjects

type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusArchived      InvoiceStatus = "archived"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusArchived:
		return true
	default:
		return false
	}
}

// IsSettleable reports whether the invoice can still receive payments
// through the settlement path.
func (s InvoiceStatus) IsSettleable() bool {
	return s == StatusUnpaid || s == StatusPartiallyPaid || s == StatusOverdue
}

// IsArchivable reports whether the archive sweep may touch this invoice.
// Partially paid and paid invoices carry money and are never archived.
func (s InvoiceStatus) IsArchivable() bool {
	return s == StatusUnpaid || s == StatusOverdue
}
