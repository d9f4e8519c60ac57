package usecases

import (
	"context"
	"errors"

	billingdto "github.com/hakot-io/hakot/internal/application/billing/dto"
	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// RenewSubscriptionCommand generates the next billing-cycle invoice for
// an active subscription.
type RenewSubscriptionCommand struct {
	SubscriptionID uint
}

// RenewSubscriptionResult carries the subscription and renewal invoice.
type RenewSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO
	Invoice      *billingdto.InvoiceDTO
}

// RenewSubscriptionUseCase issues the renewal invoice and bumps the
// billing cycle counter.
type RenewSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	createInvoice    *billingusecases.CreateInvoiceUseCase
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewRenewSubscriptionUseCase creates a new RenewSubscriptionUseCase.
func NewRenewSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	createInvoice *billingusecases.CreateInvoiceUseCase,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		createInvoice:    createInvoice,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute renews the subscription.
func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*RenewSubscriptionResult, error) {
	var result *RenewSubscriptionResult
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, cmd.SubscriptionID)
		if err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		if !sub.IsActive() {
			return apperrors.NewConflictError("only active subscriptions can be renewed")
		}

		invoiceResult, err := uc.createInvoice.Execute(txCtx, billingusecases.CreateInvoiceCommand{
			SubscriptionID: sub.ID(),
			Kind:           invoice.KindRenewal,
		})
		if err != nil {
			return err
		}

		sub.IncrementBillingCycle()
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}

		result = &RenewSubscriptionResult{
			Subscription: dto.ToSubscriptionDTO(sub),
			Invoice:      invoiceResult.Invoice,
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to renew subscription",
			"subscription_id", cmd.SubscriptionID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"subscription_id", cmd.SubscriptionID,
		"invoice_number", result.Invoice.InvoiceNumber,
		"billing_cycle_count", result.Subscription.BillingCycleCount,
	)

	return result, nil
}
