package dto

import (
	"time"

	"github.com/hakot-io/hakot/internal/domain/invoice"
)

// InvoiceDTO is the presentation-layer view of an invoice. Amounts are
// in centavos.
type InvoiceDTO struct {
	ID             uint       `json:"id"`
	SID            string     `json:"sid"`
	InvoiceNumber  string     `json:"invoice_number"`
	SubscriptionID uint       `json:"subscription_id"`
	Amount         int64      `json:"amount"`
	LateFees       int64      `json:"late_fees"`
	TotalDue       int64      `json:"total_due"`
	Currency       string     `json:"currency"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Status         string     `json:"status"`
	Kind           string     `json:"kind"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToInvoiceDTO converts the aggregate to its presentation view.
func ToInvoiceDTO(inv *invoice.Invoice) *InvoiceDTO {
	if inv == nil {
		return nil
	}

	return &InvoiceDTO{
		ID:             inv.ID(),
		SID:            inv.SID(),
		InvoiceNumber:  inv.InvoiceNumber(),
		SubscriptionID: inv.SubscriptionID(),
		Amount:         inv.Amount().AmountInCentavos(),
		LateFees:       inv.LateFees().AmountInCentavos(),
		TotalDue:       inv.TotalDue().AmountInCentavos(),
		Currency:       inv.Amount().Currency(),
		DueDate:        inv.DueDate(),
		Status:         inv.Status().String(),
		Kind:           inv.Kind(),
		Notes:          inv.Notes(),
		CreatedAt:      inv.CreatedAt(),
		UpdatedAt:      inv.UpdatedAt(),
	}
}

// ToInvoiceDTOList converts a slice of aggregates.
func ToInvoiceDTOList(invoices []*invoice.Invoice) []*InvoiceDTO {
	dtos := make([]*InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		if inv != nil {
			dtos = append(dtos, ToInvoiceDTO(inv))
		}
	}
	return dtos
}
