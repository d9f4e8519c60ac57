package subscription

import (
	"fmt"
	"time"

	vo "github.com/hakot-io/hakot/internal/domain/subscription/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/id"
)

// Subscription is the aggregate root for a resident's recurring
// waste-collection billing arrangement. All status mutation goes through
// the methods below; no other code writes these fields.
type Subscription struct {
	subID              uint
	sid                string
	userID             uint
	planID             uint
	status             vo.SubscriptionStatus
	paymentStatus      vo.PaymentStatus
	billingCycleCount  int
	cancelledAt        *time.Time
	cancelReason       *string
	suspendedAt        *time.Time
	paymentConfirmedAt *time.Time
	reactivatedAt      *time.Time
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates a subscription awaiting its first payment.
func NewSubscription(userID, planID uint) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}

	now := biztime.NowUTC()
	return &Subscription{
		sid:           id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength),
		userID:        userID,
		planID:        planID,
		status:        vo.StatusPendingPayment,
		paymentStatus: vo.PaymentStatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the
// aggregate.
type SubscriptionReconstructParams struct {
	ID                 uint
	SID                string
	UserID             uint
	PlanID             uint
	Status             vo.SubscriptionStatus
	PaymentStatus      vo.PaymentStatus
	BillingCycleCount  int
	CancelledAt        *time.Time
	CancelReason       *string
	SuspendedAt        *time.Time
	PaymentConfirmedAt *time.Time
	ReactivatedAt      *time.Time
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.PaymentStatus.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", p.PaymentStatus)
	}
	if p.CancelledAt != nil && p.SuspendedAt != nil {
		return nil, fmt.Errorf("cancelled_at and suspended_at are mutually exclusive")
	}

	return &Subscription{
		subID:              p.ID,
		sid:                p.SID,
		userID:             p.UserID,
		planID:             p.PlanID,
		status:             p.Status,
		paymentStatus:      p.PaymentStatus,
		billingCycleCount:  p.BillingCycleCount,
		cancelledAt:        p.CancelledAt,
		cancelReason:       p.CancelReason,
		suspendedAt:        p.SuspendedAt,
		paymentConfirmedAt: p.PaymentConfirmedAt,
		reactivatedAt:      p.ReactivatedAt,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.subID
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) PaymentStatus() vo.PaymentStatus {
	return s.paymentStatus
}

func (s *Subscription) BillingCycleCount() int {
	return s.billingCycleCount
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) CancelReason() *string {
	return s.cancelReason
}

func (s *Subscription) SuspendedAt() *time.Time {
	return s.suspendedAt
}

func (s *Subscription) PaymentConfirmedAt() *time.Time {
	return s.paymentConfirmedAt
}

func (s *Subscription) ReactivatedAt() *time.Time {
	return s.reactivatedAt
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// SetID sets the subscription ID after persistence.
func (s *Subscription) SetID(subID uint) error {
	if s.subID != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if subID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.subID = subID
	return nil
}

// IsActive reports whether the subscription currently grants service.
func (s *Subscription) IsActive() bool {
	return s.status.CanUseService()
}

// Activate marks the subscription active and paid. Calling it on an
// already active subscription is a no-op, which is what makes repeated
// payment confirmations safe.
func (s *Subscription) Activate() error {
	if s.status == vo.StatusActive {
		return nil
	}

	if !s.status.CanTransitionTo(vo.StatusActive) {
		return fmt.Errorf("cannot activate subscription with status %s", s.status)
	}

	now := biztime.NowUTC()
	s.status = vo.StatusActive
	s.paymentStatus = vo.PaymentStatusPaid
	s.paymentConfirmedAt = &now
	s.cancelledAt = nil
	s.cancelReason = nil
	s.suspendedAt = nil
	s.updatedAt = now
	s.version++

	return nil
}

// Cancel cancels the subscription with a reason. cancelled_at and
// suspended_at stay mutually exclusive.
func (s *Subscription) Cancel(reason string) error {
	if s.status == vo.StatusCancelled {
		return nil
	}

	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return fmt.Errorf("cannot cancel subscription with status %s", s.status)
	}

	if reason == "" {
		return fmt.Errorf("cancel reason is required")
	}

	now := biztime.NowUTC()
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.cancelReason = &reason
	s.suspendedAt = nil
	s.updatedAt = now
	s.version++

	return nil
}

// Suspend pauses an active subscription.
func (s *Subscription) Suspend() error {
	if s.status == vo.StatusSuspended {
		return nil
	}

	if !s.status.CanTransitionTo(vo.StatusSuspended) {
		return fmt.Errorf("cannot suspend subscription with status %s", s.status)
	}

	now := biztime.NowUTC()
	s.status = vo.StatusSuspended
	s.suspendedAt = &now
	s.cancelledAt = nil
	s.cancelReason = nil
	s.updatedAt = now
	s.version++

	return nil
}

// MarkReactivated records that the subscription re-entered service
// through the reactivation path.
func (s *Subscription) MarkReactivated() error {
	if s.status != vo.StatusActive {
		return fmt.Errorf("cannot mark reactivation on subscription with status %s", s.status)
	}

	now := biztime.NowUTC()
	s.reactivatedAt = &now
	s.updatedAt = now
	s.version++

	return nil
}

// IncrementBillingCycle advances the billing cycle counter when a new
// cycle invoice is issued.
func (s *Subscription) IncrementBillingCycle() {
	s.billingCycleCount++
	s.updatedAt = biztime.NowUTC()
	s.version++
}
