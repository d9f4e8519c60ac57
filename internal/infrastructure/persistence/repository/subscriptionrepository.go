package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/mappers"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/shared/db"
)

type subscriptionRepository struct {
	db     *gorm.DB
	mapper *mappers.SubscriptionMapper
}

// NewSubscriptionRepository creates a GORM-backed subscription repository.
func NewSubscriptionRepository(database *gorm.DB) subscription.SubscriptionRepository {
	return &subscriptionRepository{
		db:     database,
		mapper: mappers.NewSubscriptionMapper(),
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(sub)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return sub.SetID(model.ID)
}

func (r *subscriptionRepository) GetByID(ctx context.Context, subID uint) (*subscription.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.SubscriptionModel
	if err := tx.Where("id = ?", subID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *subscriptionRepository) GetByIDForUpdate(ctx context.Context, subID uint) (*subscription.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.SubscriptionModel
	if err := lockForUpdate(tx).Where("id = ?", subID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription for update: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uint) ([]*subscription.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var modelList []models.SubscriptionModel
	if err := tx.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(modelList))
	for i := range modelList {
		sub, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *subscriptionRepository) GetLatestByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.SubscriptionModel
	if err := tx.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get latest subscription: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(sub)
	result := tx.Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":               model.Status,
			"payment_status":       model.PaymentStatus,
			"billing_cycle_count":  model.BillingCycleCount,
			"cancelled_at":         model.CancelledAt,
			"cancel_reason":        model.CancelReason,
			"suspended_at":         model.SuspendedAt,
			"payment_confirmed_at": model.PaymentConfirmedAt,
			"reactivated_at":       model.ReactivatedAt,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}
	return nil
}
