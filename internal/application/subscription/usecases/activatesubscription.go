package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/hakot-io/hakot/internal/application/subscription/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/payment"
	paymentvo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// PaymentData describes the payment an activation records. A nil
// PaymentData activates without writing a ledger row.
type PaymentData struct {
	AmountCentavos  int64
	Currency        string
	Method          string
	ReferenceNumber string
	PaymentDate     *time.Time
}

// ActivateSubscriptionCommand activates a subscription, settling its
// open invoice and recording the payment when one is supplied.
type ActivateSubscriptionCommand struct {
	SubscriptionID uint
	PaymentData    *PaymentData
}

// ActivateSubscriptionResult reports the activated subscription and what
// was settled.
type ActivateSubscriptionResult struct {
	Subscription    *dto.SubscriptionDTO
	SettledInvoice  uint
	PaymentRecorded bool
	AlreadyActive   bool
}

// ActivateSubscriptionUseCase is the single mutating entry point that
// produces a paid, active subscription. The whole effect runs in one
// transaction: the subscription flip, the invoice settlement, and the
// payment row commit together or not at all. The subscription row is
// loaded under a row lock so concurrent activations serialize; the
// second caller observes the already-active state and succeeds.
type ActivateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	invoiceRepo      invoice.InvoiceRepository
	paymentRepo      payment.PaymentRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewActivateSubscriptionUseCase creates a new ActivateSubscriptionUseCase.
func NewActivateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	invoiceRepo invoice.InvoiceRepository,
	paymentRepo payment.PaymentRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute activates the subscription.
func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, cmd ActivateSubscriptionCommand) (*ActivateSubscriptionResult, error) {
	result := &ActivateSubscriptionResult{}

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, cmd.SubscriptionID)
		if err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		result.AlreadyActive = sub.IsActive()

		// Resolve the target invoice: the open invoice with the most
		// recent due date, undated ones last. When none is open, fall
		// back to the most recently created invoice regardless of
		// status so legacy records still get their payment attached.
		target, err := uc.invoiceRepo.FindSettlementTarget(txCtx, cmd.SubscriptionID)
		if err != nil {
			return err
		}
		legacyFallback := false
		if target == nil {
			target, err = uc.invoiceRepo.FindLatestBySubscription(txCtx, cmd.SubscriptionID)
			if err != nil {
				return err
			}
			legacyFallback = target != nil
		}

		if target != nil {
			recorded, err := uc.recordPayment(txCtx, target, cmd.PaymentData)
			if err != nil {
				return err
			}
			result.PaymentRecorded = recorded

			// The fallback invoice may already be paid or archived;
			// its status is never regressed or resurrected.
			if !legacyFallback || target.Status().IsSettleable() {
				if err := target.MarkPaid(); err != nil {
					return apperrors.NewConflictError(err.Error())
				}
				if err := uc.invoiceRepo.Update(txCtx, target); err != nil {
					return err
				}
			}
			result.SettledInvoice = target.ID()
		}

		if err := sub.Activate(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}

		result.Subscription = dto.ToSubscriptionDTO(sub)
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to activate subscription",
			"subscription_id", cmd.SubscriptionID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("subscription activated",
		"subscription_id", cmd.SubscriptionID,
		"settled_invoice", result.SettledInvoice,
		"payment_recorded", result.PaymentRecorded,
		"already_active", result.AlreadyActive,
	)

	return result, nil
}

// recordPayment writes the ledger row against the target invoice. A
// redelivered gateway event carries the same reference number, so an
// existing row with that reference on this invoice means the payment was
// already applied and no second row is written.
func (uc *ActivateSubscriptionUseCase) recordPayment(ctx context.Context, target *invoice.Invoice, data *PaymentData) (bool, error) {
	if data == nil {
		return false, nil
	}

	if data.ReferenceNumber != "" {
		exists, err := uc.paymentRepo.ExistsByInvoiceAndReference(ctx, target.ID(), data.ReferenceNumber)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	currency := data.Currency
	if currency == "" {
		currency = target.Amount().Currency()
	}
	amountCentavos := data.AmountCentavos
	if amountCentavos == 0 {
		amountCentavos = target.TotalDue().AmountInCentavos()
	}

	amount := sharedvo.NewMoney(amountCentavos, currency)
	method, err := paymentvo.NewPaymentMethod(data.Method)
	if err != nil {
		return false, apperrors.NewValidationError(err.Error())
	}

	p, err := payment.NewPayment(target.ID(), amount, method, data.ReferenceNumber)
	if err != nil {
		return false, apperrors.NewValidationError(err.Error())
	}
	if data.PaymentDate != nil {
		p.SetPaymentDate(*data.PaymentDate)
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}
