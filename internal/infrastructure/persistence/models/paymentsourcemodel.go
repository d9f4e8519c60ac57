package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentSourceModel is the GORM model for the payment_sources table.
// The gateway-issued source identifier is the natural key; InvoiceID stays
// NULL until the source is linked to an invoice.
type PaymentSourceModel struct {
	SourceID    string `gorm:"primaryKey;size:64"`
	InvoiceID   *uint  `gorm:"index"`
	Amount      int64  `gorm:"not null"`
	Currency    string `gorm:"size:3;not null"`
	Method      string `gorm:"size:20;not null"`
	CheckoutURL *string `gorm:"size:512"`
	Status      string  `gorm:"size:20;index;not null"`
	WebhookData datatypes.JSONMap
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (PaymentSourceModel) TableName() string {
	return "payment_sources"
}
