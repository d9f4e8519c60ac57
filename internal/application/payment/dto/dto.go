package dto

import (
	"time"

	"github.com/hakot-io/hakot/internal/domain/paymentsource"
)

// PaymentSourceDTO is the presentation-layer view of a gateway payment
// intent.
type PaymentSourceDTO struct {
	SourceID    string    `json:"source_id"`
	InvoiceID   *uint     `json:"invoice_id,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
	CheckoutURL *string   `json:"checkout_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPaymentSourceDTO converts the aggregate to its presentation view.
func ToPaymentSourceDTO(src *paymentsource.PaymentSource) *PaymentSourceDTO {
	if src == nil {
		return nil
	}

	return &PaymentSourceDTO{
		SourceID:    src.SourceID(),
		InvoiceID:   src.InvoiceID(),
		Amount:      src.AmountCentavos(),
		Currency:    src.Currency(),
		Method:      src.Method(),
		CheckoutURL: src.CheckoutURL(),
		Status:      src.Status().String(),
		CreatedAt:   src.CreatedAt(),
		UpdatedAt:   src.UpdatedAt(),
	}
}
