package usecases

import (
	"context"
	"errors"
	"time"

	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/config"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// Default classification thresholds, in days of dormancy. Overridable
// through BillingConfig.
const (
	defaultEnhancedReactivationDays = 30
	defaultLongTermReactivationDays = 90
)

// Reactivation types reported to the caller.
const (
	ReactivationStandard = "standard"
	ReactivationLongTerm = "long_term"
)

// ReactivateSubscriptionCommand brings a resident's dormant subscription
// back into service.
type ReactivateSubscriptionCommand struct {
	UserID      uint
	PaymentData *PaymentData
}

// ReactivateSubscriptionUseCase is the re-entry path for cancelled and
// suspended subscriptions. Long-dormant accounts first get their stale
// invoices archived, then the ordinary activation runs, then a
// welcome-back invoice opens the next billing cycle. Archiving and the
// new invoice are independent cleanup around the activation; only the
// activation itself is atomic.
type ReactivateSubscriptionUseCase struct {
	subscriptionRepo  subscription.SubscriptionRepository
	activate          *ActivateSubscriptionUseCase
	archiveStale      *billingusecases.ArchiveStaleInvoicesUseCase
	createInvoice     *billingusecases.CreateInvoiceUseCase
	txManager         *db.TransactionManager
	logger            logger.Interface
	enhancedDays      int
	longTermDays      int
	archiveCutoffDays int
}

// NewReactivateSubscriptionUseCase creates a new ReactivateSubscriptionUseCase.
func NewReactivateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	activate *ActivateSubscriptionUseCase,
	archiveStale *billingusecases.ArchiveStaleInvoicesUseCase,
	createInvoice *billingusecases.CreateInvoiceUseCase,
	txManager *db.TransactionManager,
	billing *config.BillingConfig,
	logger logger.Interface,
) *ReactivateSubscriptionUseCase {
	enhancedDays := billing.ShortTermThresholdDays
	if enhancedDays <= 0 {
		enhancedDays = defaultEnhancedReactivationDays
	}
	longTermDays := billing.LongTermThresholdDays
	if longTermDays <= 0 {
		longTermDays = defaultLongTermReactivationDays
	}

	return &ReactivateSubscriptionUseCase{
		subscriptionRepo:  subscriptionRepo,
		activate:          activate,
		archiveStale:      archiveStale,
		createInvoice:     createInvoice,
		txManager:         txManager,
		logger:            logger,
		enhancedDays:      enhancedDays,
		longTermDays:      longTermDays,
		archiveCutoffDays: billing.ArchiveCutoffDays,
	}
}

// ShouldUseEnhanced reports whether the user's most recent subscription
// needs the enhanced path: dormant past the short-term threshold, or
// currently cancelled regardless of elapsed time.
func (uc *ReactivateSubscriptionUseCase) ShouldUseEnhanced(ctx context.Context, userID uint) (bool, error) {
	sub, err := uc.subscriptionRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return false, apperrors.NewNotFoundError("no subscription found for user")
		}
		return false, err
	}

	if sub.CancelledAt() != nil {
		return true, nil
	}
	return dormantDays(sub) > uc.enhancedDays, nil
}

// Execute reactivates the user's most recent subscription.
func (uc *ReactivateSubscriptionUseCase) Execute(ctx context.Context, cmd ReactivateSubscriptionCommand) (*dto.ReactivationResultDTO, error) {
	sub, err := uc.subscriptionRepo.GetLatestByUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("no subscription found for user")
		}
		return nil, err
	}

	// An already active or still-pending subscription has nothing to
	// reactivate; treat it as a no-op success to keep retries safe.
	if !sub.Status().IsDormant() {
		return &dto.ReactivationResultDTO{
			Subscription:     dto.ToSubscriptionDTO(sub),
			ReactivationType: ReactivationStandard,
		}, nil
	}

	daysSinceCancellation := 0
	if sub.CancelledAt() != nil {
		daysSinceCancellation = biztime.DaysSince(*sub.CancelledAt())
	}

	result := &dto.ReactivationResultDTO{
		DaysSinceCancellation: daysSinceCancellation,
		ReactivationType:      ReactivationStandard,
	}
	if daysSinceCancellation > uc.longTermDays {
		result.ReactivationType = ReactivationLongTerm
	}

	if daysSinceCancellation > uc.enhancedDays {
		archiveResult, err := uc.archiveStale.Execute(ctx, billingusecases.ArchiveStaleInvoicesCommand{
			SubscriptionID: sub.ID(),
			CutoffDays:     uc.archiveCutoffDays,
			Note:           "archived on reactivation",
		})
		if err != nil {
			return nil, err
		}
		result.ArchivedInvoices = archiveResult.ArchivedCount
	}

	activateResult, err := uc.activate.Execute(ctx, ActivateSubscriptionCommand{
		SubscriptionID: sub.ID(),
		PaymentData:    cmd.PaymentData,
	})
	if err != nil {
		return nil, err
	}
	result.Subscription = activateResult.Subscription

	if err := uc.markReactivated(ctx, sub.ID()); err != nil {
		return nil, err
	}

	welcomeBack, err := uc.createInvoice.Execute(ctx, billingusecases.CreateInvoiceCommand{
		SubscriptionID: sub.ID(),
		Kind:           invoice.KindReactivation,
	})
	if err != nil {
		return nil, err
	}
	result.InvoiceID = welcomeBack.Invoice.ID
	result.InvoiceNumber = welcomeBack.Invoice.InvoiceNumber

	uc.logger.Infow("subscription reactivated",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"reactivation_type", result.ReactivationType,
		"days_since_cancellation", daysSinceCancellation,
		"archived_invoices", result.ArchivedInvoices,
	)

	return result, nil
}

func (uc *ReactivateSubscriptionUseCase) markReactivated(ctx context.Context, subscriptionID uint) error {
	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		if err := sub.MarkReactivated(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		return uc.subscriptionRepo.Update(txCtx, sub)
	})
}

// dormantDays is how long the subscription has been cancelled or
// suspended, whichever applies.
func dormantDays(sub *subscription.Subscription) int {
	var since *time.Time
	switch {
	case sub.CancelledAt() != nil:
		since = sub.CancelledAt()
	case sub.SuspendedAt() != nil:
		since = sub.SuspendedAt()
	}
	if since == nil {
		return 0
	}
	return biztime.DaysSince(*since)
}
