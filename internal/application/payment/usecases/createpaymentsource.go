package usecases

import (
	"context"
	"errors"

	"github.com/hakot-io/hakot/internal/application/payment/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	"github.com/hakot-io/hakot/internal/infrastructure/gateway"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// CreatePaymentSourceCommand opens a gateway checkout for an invoice.
// InvoiceID may be zero when the caller only knows the amount; the
// webhook-time fallback will link the source to an invoice later.
type CreatePaymentSourceCommand struct {
	InvoiceID       uint
	AmountCentavos  int64
	Method          string
	RedirectSuccess string
	RedirectFailed  string
}

// CreatePaymentSourceResult carries the created source and checkout URL.
type CreatePaymentSourceResult struct {
	Source *dto.PaymentSourceDTO
}

// CreatePaymentSourceUseCase registers a payment intent with the gateway
// and records it locally under the gateway-issued source ID. The gateway
// call is bounded by the client timeout; on timeout nothing is assumed,
// the webhook remains the source of truth.
type CreatePaymentSourceUseCase struct {
	sourceRepo    paymentsource.PaymentSourceRepository
	invoiceRepo   invoice.InvoiceRepository
	gatewayClient gateway.Client
	logger        logger.Interface
}

// NewCreatePaymentSourceUseCase creates a new CreatePaymentSourceUseCase.
func NewCreatePaymentSourceUseCase(
	sourceRepo paymentsource.PaymentSourceRepository,
	invoiceRepo invoice.InvoiceRepository,
	gatewayClient gateway.Client,
	logger logger.Interface,
) *CreatePaymentSourceUseCase {
	return &CreatePaymentSourceUseCase{
		sourceRepo:    sourceRepo,
		invoiceRepo:   invoiceRepo,
		gatewayClient: gatewayClient,
		logger:        logger,
	}
}

// Execute creates the payment source.
func (uc *CreatePaymentSourceUseCase) Execute(ctx context.Context, cmd CreatePaymentSourceCommand) (*CreatePaymentSourceResult, error) {
	amountCentavos := cmd.AmountCentavos
	currency := ""

	var invoiceID *uint
	if cmd.InvoiceID != 0 {
		inv, err := uc.invoiceRepo.GetByID(ctx, cmd.InvoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return nil, apperrors.NewNotFoundError("invoice not found")
			}
			return nil, err
		}
		id := inv.ID()
		invoiceID = &id
		currency = inv.Amount().Currency()
		if amountCentavos == 0 {
			amountCentavos = inv.TotalDue().AmountInCentavos()
		}
	}
	if amountCentavos <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	if currency == "" {
		currency = "PHP"
	}

	created, err := uc.gatewayClient.CreateSource(ctx, amountCentavos, currency, cmd.Method, cmd.RedirectSuccess, cmd.RedirectFailed)
	if err != nil {
		uc.logger.Errorw("gateway source creation failed",
			"invoice_id", cmd.InvoiceID,
			"amount_centavos", amountCentavos,
			"error", err,
		)
		return nil, err
	}

	src, err := paymentsource.NewPaymentSource(created.SourceID, invoiceID, amountCentavos, currency, cmd.Method, created.CheckoutURL)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.sourceRepo.Create(ctx, src); err != nil {
		return nil, err
	}

	uc.logger.Infow("payment source created",
		"source_id", src.SourceID(),
		"invoice_id", cmd.InvoiceID,
		"amount_centavos", amountCentavos,
	)

	return &CreatePaymentSourceResult{Source: dto.ToPaymentSourceDTO(src)}, nil
}
