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

// SuspendSubscriptionCommand suspends an active subscription.
type SuspendSubscriptionCommand struct {
	SubscriptionID uint
}

// SuspendSubscriptionResult carries the suspended subscription.
type SuspendSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO
}

// SuspendSubscriptionUseCase pauses collection service without
// cancelling the arrangement.
type SuspendSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewSuspendSubscriptionUseCase creates a new SuspendSubscriptionUseCase.
func NewSuspendSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *SuspendSubscriptionUseCase {
	return &SuspendSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute suspends the subscription.
func (uc *SuspendSubscriptionUseCase) Execute(ctx context.Context, cmd SuspendSubscriptionCommand) (*SuspendSubscriptionResult, error) {
	var result *SuspendSubscriptionResult
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, cmd.SubscriptionID)
		if err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		if err := sub.Suspend(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}

		result = &SuspendSubscriptionResult{Subscription: dto.ToSubscriptionDTO(sub)}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to suspend subscription",
			"subscription_id", cmd.SubscriptionID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("subscription suspended", "subscription_id", cmd.SubscriptionID)

	return result, nil
}
