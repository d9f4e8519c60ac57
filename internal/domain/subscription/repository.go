package subscription

import "context"

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, subID uint) (*Subscription, error)
	// GetByIDForUpdate loads the subscription under a row lock so that
	// concurrent activations for the same subscription serialize on the
	// database transaction.
	GetByIDForUpdate(ctx context.Context, subID uint) (*Subscription, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	// GetLatestByUserID returns the user's most recently created
	// subscription, the one reactivation operates on.
	GetLatestByUserID(ctx context.Context, userID uint) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
}
