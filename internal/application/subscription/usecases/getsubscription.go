package usecases

import (
	"context"
	"errors"

	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// GetSubscriptionCommand fetches a subscription by ID.
type GetSubscriptionCommand struct {
	SubscriptionID uint
}

// GetSubscriptionResult carries the subscription.
type GetSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO
}

// GetSubscriptionUseCase is the single-subscription read path.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

// NewGetSubscriptionUseCase creates a new GetSubscriptionUseCase.
func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute fetches the subscription.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, cmd GetSubscriptionCommand) (*GetSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		return nil, err
	}

	return &GetSubscriptionResult{Subscription: dto.ToSubscriptionDTO(sub)}, nil
}
