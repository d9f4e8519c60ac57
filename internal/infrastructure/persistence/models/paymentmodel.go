package models

import "time"

// PaymentModel is the GORM model for the payments table. Rows are
// append-only; there is no update path.
type PaymentModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	SID             string `gorm:"column:sid;uniqueIndex;size:16;not null"`
	InvoiceID       uint   `gorm:"index;not null"`
	Amount          int64  `gorm:"not null"`
	Currency        string `gorm:"size:3;not null"`
	Method          string `gorm:"size:20;not null"`
	ReferenceNumber *string `gorm:"size:64;index"`
	PaymentDate     time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
