package usecases

import (
	"context"

	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// ListUserSubscriptionsCommand lists a user's subscriptions, newest
// first.
type ListUserSubscriptionsCommand struct {
	UserID uint
}

// ListUserSubscriptionsResult carries the subscriptions.
type ListUserSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO
}

// ListUserSubscriptionsUseCase is the per-user listing read path.
type ListUserSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

// NewListUserSubscriptionsUseCase creates a new ListUserSubscriptionsUseCase.
func NewListUserSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ListUserSubscriptionsUseCase {
	return &ListUserSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute lists the subscriptions.
func (uc *ListUserSubscriptionsUseCase) Execute(ctx context.Context, cmd ListUserSubscriptionsCommand) (*ListUserSubscriptionsResult, error) {
	subs, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	return &ListUserSubscriptionsResult{Subscriptions: dto.ToSubscriptionDTOList(subs)}, nil
}
