package models

import "time"

// SubscriptionModel is the GORM model for the customer_subscriptions table.
type SubscriptionModel struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement"`
	SID                string `gorm:"column:sid;uniqueIndex;size:16;not null"`
	UserID             uint   `gorm:"index;not null"`
	PlanID             uint   `gorm:"not null"`
	Status             string `gorm:"size:20;index;not null"`
	PaymentStatus      string `gorm:"size:20;not null"`
	BillingCycleCount  int    `gorm:"not null;default:0"`
	CancelledAt        *time.Time
	CancelReason       *string `gorm:"size:255"`
	SuspendedAt        *time.Time
	PaymentConfirmedAt *time.Time
	ReactivatedAt      *time.Time
	Version            int       `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func (SubscriptionModel) TableName() string {
	return "customer_subscriptions"
}
