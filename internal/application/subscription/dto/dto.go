package dto

import "time"

// SubscriptionDTO is the presentation-layer view of a subscription.
type SubscriptionDTO struct {
	ID                 uint       `json:"id"`
	SID                string     `json:"sid"`
	UserID             uint       `json:"user_id"`
	PlanID             uint       `json:"plan_id"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	BillingCycleCount  int        `json:"billing_cycle_count"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelReason       *string    `json:"cancel_reason,omitempty"`
	SuspendedAt        *time.Time `json:"suspended_at,omitempty"`
	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty"`
	ReactivatedAt      *time.Time `json:"reactivated_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ReactivationResultDTO reports what a reactivation did.
type ReactivationResultDTO struct {
	Subscription          *SubscriptionDTO `json:"subscription"`
	InvoiceID             uint             `json:"invoice_id,omitempty"`
	InvoiceNumber         string           `json:"invoice_number,omitempty"`
	DaysSinceCancellation int              `json:"days_since_cancellation"`
	ArchivedInvoices      int64            `json:"archived_invoices"`
	ReactivationType      string           `json:"reactivation_type"`
}
