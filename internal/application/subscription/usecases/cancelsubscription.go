package usecases

import (
	"context"
	"errors"

	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// CancelSubscriptionCommand cancels a subscription with a reason.
type CancelSubscriptionCommand struct {
	SubscriptionID uint
	Reason         string
}

// CancelSubscriptionResult carries the cancelled subscription.
type CancelSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO
}

// CancelSubscriptionUseCase cancels a subscription. Cancellation is a
// soft transition; a cancelled subscription can always be reactivated.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewCancelSubscriptionUseCase creates a new CancelSubscriptionUseCase.
func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute cancels the subscription.
func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	if cmd.Reason == "" {
		return nil, apperrors.NewValidationError("cancellation reason is required")
	}

	var result *CancelSubscriptionResult
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, cmd.SubscriptionID)
		if err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		if err := sub.Cancel(cmd.Reason); err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}

		result = &CancelSubscriptionResult{Subscription: dto.ToSubscriptionDTO(sub)}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel subscription",
			"subscription_id", cmd.SubscriptionID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", cmd.SubscriptionID,
		"reason", cmd.Reason,
	)

	return result, nil
}
