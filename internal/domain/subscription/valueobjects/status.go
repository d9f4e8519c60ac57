package valueobjects

type SubscriptionStatus string

const (
	StatusPendingPayment SubscriptionStatus = "pending_payment"
	StatusActive         SubscriptionStatus = "active"
	StatusSuspended      SubscriptionStatus = "suspended"
	StatusCancelled      SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusActive
}

// IsDormant reports whether the subscription left active service and may
// only re-enter it through reactivation.
func (s SubscriptionStatus) IsDormant() bool {
	return s == StatusSuspended || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows moving to
// target. Cancelled is not terminal: reactivation brings it back to
// active.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPendingPayment: {StatusActive, StatusCancelled},
		StatusActive:         {StatusSuspended, StatusCancelled},
		StatusSuspended:      {StatusActive, StatusCancelled},
		StatusCancelled:      {StatusActive},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPendingPayment: true,
	StatusActive:         true,
	StatusSuspended:      true,
	StatusCancelled:      true,
}
