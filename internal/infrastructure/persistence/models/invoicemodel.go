package models

import "time"

// InvoiceModel is the GORM model for the invoices table.
type InvoiceModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	SID            string `gorm:"column:sid;uniqueIndex;size:16;not null"`
	InvoiceNumber  string `gorm:"uniqueIndex;size:20;not null"`
	SubscriptionID uint   `gorm:"index;not null"`
	Amount         int64  `gorm:"not null"`
	LateFees       int64  `gorm:"not null;default:0"`
	Currency       string `gorm:"size:3;not null"`
	DueDate        *time.Time
	Status         string  `gorm:"size:20;index;not null"`
	Kind           string  `gorm:"size:20;not null"`
	Notes          *string `gorm:"type:text"`
	Version        int     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"index;not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceSequenceModel backs the monotonic invoice number allocator.
// A single counter row is incremented inside the caller's transaction.
type InvoiceSequenceModel struct {
	ID        uint  `gorm:"primaryKey"`
	NextValue int64 `gorm:"not null"`
}

func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}
