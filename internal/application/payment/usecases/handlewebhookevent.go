package usecases

import (
	"context"
	"errors"

	subscriptionusecases "github.com/hakot-io/hakot/internal/application/subscription/usecases"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	paymentvo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	sourcevo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// HandleWebhookEventCommand processes one gateway delivery. Status is
// the gateway's wire status; RawPayload is retained verbatim for audit.
type HandleWebhookEventCommand struct {
	SourceID   string
	Status     string
	RawPayload map[string]interface{}
}

// HandleWebhookEventResult reports what the delivery did.
type HandleWebhookEventResult struct {
	Applied    bool
	Redelivery bool
	Unresolved bool
}

// HandleWebhookEventUseCase is the asynchronous, retry-prone
// reconciliation path. The gateway delivers at least once, possibly out
// of order and duplicated; the previous-status check makes the first
// completed delivery the only one with financial effect. Everything from
// the status write to the activation runs inside one transaction so a
// source marked completed can never leave the ledger un-reconciled.
type HandleWebhookEventUseCase struct {
	sourceRepo  paymentsource.PaymentSourceRepository
	invoiceRepo invoice.InvoiceRepository
	activate    *subscriptionusecases.ActivateSubscriptionUseCase
	txManager   *db.TransactionManager
	logger      logger.Interface
}

// NewHandleWebhookEventUseCase creates a new HandleWebhookEventUseCase.
func NewHandleWebhookEventUseCase(
	sourceRepo paymentsource.PaymentSourceRepository,
	invoiceRepo invoice.InvoiceRepository,
	activate *subscriptionusecases.ActivateSubscriptionUseCase,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *HandleWebhookEventUseCase {
	return &HandleWebhookEventUseCase{
		sourceRepo:  sourceRepo,
		invoiceRepo: invoiceRepo,
		activate:    activate,
		txManager:   txManager,
		logger:      logger,
	}
}

// mapGatewayStatus translates the gateway's wire status into the local
// source status. chargeable means the gateway collected the money.
func mapGatewayStatus(status string) (sourcevo.SourceStatus, error) {
	switch status {
	case "chargeable", "paid", "completed":
		return sourcevo.StatusCompleted, nil
	case "failed", "cancelled", "expired":
		return sourcevo.StatusFailed, nil
	case "pending":
		return sourcevo.StatusPending, nil
	default:
		return "", apperrors.NewBadRequestError("unknown gateway status: " + status)
	}
}

// Execute processes the delivery.
func (uc *HandleWebhookEventUseCase) Execute(ctx context.Context, cmd HandleWebhookEventCommand) (*HandleWebhookEventResult, error) {
	if cmd.SourceID == "" {
		return nil, apperrors.NewBadRequestError("source ID is required")
	}

	mapped, err := mapGatewayStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	result := &HandleWebhookEventResult{}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		prev, src, err := uc.sourceRepo.UpdateStatus(txCtx, cmd.SourceID, mapped, cmd.RawPayload)
		if err != nil {
			if errors.Is(err, paymentsource.ErrPaymentSourceNotFound) {
				return apperrors.NewNotFoundError("payment source not found")
			}
			return err
		}

		// Only the first transition to completed carries financial
		// effect; everything else is recorded and dropped.
		if mapped != sourcevo.StatusCompleted || prev == sourcevo.StatusCompleted {
			result.Redelivery = prev == sourcevo.StatusCompleted
			return nil
		}

		if !src.IsLinked() {
			src, err = uc.sourceRepo.ResolveInvoiceFallback(txCtx, cmd.SourceID)
			if err != nil {
				return err
			}
		}

		if !src.IsLinked() {
			// Retained for manual reconciliation; surfaced, not fatal.
			result.Unresolved = true
			uc.logger.Warnw("completed payment source has no invoice",
				"source_id", cmd.SourceID,
				"amount_centavos", src.AmountCentavos(),
			)
			return nil
		}

		inv, err := uc.invoiceRepo.GetByID(txCtx, *src.InvoiceID())
		if err != nil {
			return err
		}

		_, err = uc.activate.Execute(txCtx, subscriptionusecases.ActivateSubscriptionCommand{
			SubscriptionID: inv.SubscriptionID(),
			PaymentData: &subscriptionusecases.PaymentData{
				AmountCentavos:  src.AmountCentavos(),
				Currency:        src.Currency(),
				Method:          paymentvo.MethodGateway.String(),
				ReferenceNumber: src.SourceID(),
			},
		})
		if err != nil {
			return err
		}

		result.Applied = true
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to handle webhook event",
			"source_id", cmd.SourceID,
			"status", cmd.Status,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("webhook event handled",
		"source_id", cmd.SourceID,
		"status", cmd.Status,
		"applied", result.Applied,
		"redelivery", result.Redelivery,
		"unresolved", result.Unresolved,
	)

	return result, nil
}
