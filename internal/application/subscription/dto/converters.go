package dto

import "github.com/hakot-io/hakot/internal/domain/subscription"

// ToSubscriptionDTO converts the aggregate to its presentation view.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	return &SubscriptionDTO{
		ID:                 sub.ID(),
		SID:                sub.SID(),
		UserID:             sub.UserID(),
		PlanID:             sub.PlanID(),
		Status:             sub.Status().String(),
		PaymentStatus:      sub.PaymentStatus().String(),
		BillingCycleCount:  sub.BillingCycleCount(),
		CancelledAt:        sub.CancelledAt(),
		CancelReason:       sub.CancelReason(),
		SuspendedAt:        sub.SuspendedAt(),
		PaymentConfirmedAt: sub.PaymentConfirmedAt(),
		ReactivatedAt:      sub.ReactivatedAt(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}

// ToSubscriptionDTOList converts a slice of aggregates.
func ToSubscriptionDTOList(subs []*subscription.Subscription) []*SubscriptionDTO {
	dtos := make([]*SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		if sub != nil {
			dtos = append(dtos, ToSubscriptionDTO(sub))
		}
	}
	return dtos
}
