package mappers

import (
	"github.com/hakot-io/hakot/internal/domain/subscription"
	vo "github.com/hakot-io/hakot/internal/domain/subscription/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
)

// SubscriptionMapper converts between the subscription aggregate and its
// GORM model.
type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
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
		Version:            sub.Version(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}

func (m *SubscriptionMapper) ToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:                 model.ID,
		SID:                model.SID,
		UserID:             model.UserID,
		PlanID:             model.PlanID,
		Status:             vo.SubscriptionStatus(model.Status),
		PaymentStatus:      vo.PaymentStatus(model.PaymentStatus),
		BillingCycleCount:  model.BillingCycleCount,
		CancelledAt:        model.CancelledAt,
		CancelReason:       model.CancelReason,
		SuspendedAt:        model.SuspendedAt,
		PaymentConfirmedAt: model.PaymentConfirmedAt,
		ReactivatedAt:      model.ReactivatedAt,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}
