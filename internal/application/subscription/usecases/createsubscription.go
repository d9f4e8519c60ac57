package usecases

import (
	"context"

	billingdto "github.com/hakot-io/hakot/internal/application/billing/dto"
	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// CreateSubscriptionCommand signs a resident up for collection service.
type CreateSubscriptionCommand struct {
	UserID uint
	PlanID uint
}

// CreateSubscriptionResult carries the new subscription and its
// registration invoice.
type CreateSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO
	Invoice      *billingdto.InvoiceDTO
}

// CreateSubscriptionUseCase creates a subscription in pending_payment
// together with its registration invoice, in one transaction. The
// subscription stays pending until a payment activates it.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	createInvoice    *billingusecases.CreateInvoiceUseCase
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewCreateSubscriptionUseCase creates a new CreateSubscriptionUseCase.
func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	createInvoice *billingusecases.CreateInvoiceUseCase,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		createInvoice:    createInvoice,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute creates the subscription and its first invoice.
func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	sub, err := subscription.NewSubscription(cmd.UserID, cmd.PlanID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var invoiceDTO *billingdto.InvoiceDTO
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			return err
		}

		invoiceResult, err := uc.createInvoice.Execute(txCtx, billingusecases.CreateInvoiceCommand{
			SubscriptionID: sub.ID(),
			Kind:           invoice.KindRegistration,
		})
		if err != nil {
			return err
		}

		invoiceDTO = invoiceResult.Invoice
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create subscription",
			"user_id", cmd.UserID,
			"plan_id", cmd.PlanID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"invoice_number", invoiceDTO.InvoiceNumber,
	)

	return &CreateSubscriptionResult{
		Subscription: dto.ToSubscriptionDTO(sub),
		Invoice:      invoiceDTO,
	}, nil
}
