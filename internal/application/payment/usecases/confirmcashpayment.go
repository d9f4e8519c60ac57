package usecases

import (
	"context"
	"time"

	subscriptiondto "github.com/hakot-io/hakot/internal/application/subscription/dto"
	subscriptionusecases "github.com/hakot-io/hakot/internal/application/subscription/usecases"
	paymentvo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// ConfirmCashPaymentCommand records a collector-verified cash payment
// and activates the subscription.
type ConfirmCashPaymentCommand struct {
	SubscriptionID uint
	CollectorID    uint
	AmountCentavos int64
	Notes          string
	PaymentDate    *time.Time
}

// ConfirmCashPaymentResult carries the activated subscription.
type ConfirmCashPaymentResult struct {
	Subscription    *subscriptiondto.SubscriptionDTO
	SettledInvoice  uint
	PaymentRecorded bool
}

// ConfirmCashPaymentUseCase is the synchronous reconciliation path: a
// human collector confirmed cash in hand, so the activation runs
// directly. Triggered once per confirmation, it needs no idempotency
// beyond what the activation already guarantees.
type ConfirmCashPaymentUseCase struct {
	activate *subscriptionusecases.ActivateSubscriptionUseCase
	logger   logger.Interface
}

// NewConfirmCashPaymentUseCase creates a new ConfirmCashPaymentUseCase.
func NewConfirmCashPaymentUseCase(
	activate *subscriptionusecases.ActivateSubscriptionUseCase,
	logger logger.Interface,
) *ConfirmCashPaymentUseCase {
	return &ConfirmCashPaymentUseCase{
		activate: activate,
		logger:   logger,
	}
}

// Execute confirms the cash payment.
func (uc *ConfirmCashPaymentUseCase) Execute(ctx context.Context, cmd ConfirmCashPaymentCommand) (*ConfirmCashPaymentResult, error) {
	if cmd.AmountCentavos <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}

	// Cash confirmations are triggered once by a human, so no synthetic
	// reference number is attached; the dedup guard is a gateway concern.
	activateResult, err := uc.activate.Execute(ctx, subscriptionusecases.ActivateSubscriptionCommand{
		SubscriptionID: cmd.SubscriptionID,
		PaymentData: &subscriptionusecases.PaymentData{
			AmountCentavos: cmd.AmountCentavos,
			Method:         paymentvo.MethodCash.String(),
			PaymentDate:    cmd.PaymentDate,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("cash payment confirmed",
		"subscription_id", cmd.SubscriptionID,
		"collector_id", cmd.CollectorID,
		"amount_centavos", cmd.AmountCentavos,
	)

	return &ConfirmCashPaymentResult{
		Subscription:    activateResult.Subscription,
		SettledInvoice:  activateResult.SettledInvoice,
		PaymentRecorded: activateResult.PaymentRecorded,
	}, nil
}
