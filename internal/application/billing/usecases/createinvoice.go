package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hakot-io/hakot/internal/application/billing/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/config"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// CreateInvoiceCommand creates a new invoice for a subscription.
// AmountCentavos of 0 means the configured monthly rate; a nil DueDate
// means the configured due window from now.
type CreateInvoiceCommand struct {
	SubscriptionID uint
	AmountCentavos int64
	Kind           string
	DueDate        *time.Time
}

// CreateInvoiceResult carries the created invoice.
type CreateInvoiceResult struct {
	Invoice *dto.InvoiceDTO
}

// CreateInvoiceUseCase allocates the next invoice number and persists a
// new invoice, both inside one transaction so numbering never skips or
// collides.
type CreateInvoiceUseCase struct {
	invoiceRepo      invoice.InvoiceRepository
	subscriptionRepo subscription.SubscriptionRepository
	txManager        *db.TransactionManager
	billing          *config.BillingConfig
	logger           logger.Interface
}

// NewCreateInvoiceUseCase creates a new CreateInvoiceUseCase.
func NewCreateInvoiceUseCase(
	invoiceRepo invoice.InvoiceRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	txManager *db.TransactionManager,
	billing *config.BillingConfig,
	logger logger.Interface,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		invoiceRepo:      invoiceRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		billing:          billing,
		logger:           logger,
	}
}

// Execute creates the invoice.
func (uc *CreateInvoiceUseCase) Execute(ctx context.Context, cmd CreateInvoiceCommand) (*CreateInvoiceResult, error) {
	amountCentavos := cmd.AmountCentavos
	if amountCentavos == 0 {
		amountCentavos = uc.billing.MonthlyRateCentavos
	}

	if amountCentavos <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	amount := sharedvo.NewMoney(amountCentavos, uc.billing.Currency)

	dueDate := cmd.DueDate
	if dueDate == nil {
		d := biztime.NowUTC().AddDate(0, 0, uc.billing.DueInDays)
		dueDate = &d
	}

	var created *invoice.Invoice
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.subscriptionRepo.GetByID(txCtx, cmd.SubscriptionID); err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		seq, err := uc.invoiceRepo.NextInvoiceNumber(txCtx)
		if err != nil {
			return err
		}

		inv, err := invoice.NewInvoice(cmd.SubscriptionID, FormatInvoiceNumber(seq), amount, dueDate, cmd.Kind)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := uc.invoiceRepo.Create(txCtx, inv); err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create invoice",
			"subscription_id", cmd.SubscriptionID,
			"kind", cmd.Kind,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("invoice created",
		"invoice_number", created.InvoiceNumber(),
		"subscription_id", cmd.SubscriptionID,
		"amount_centavos", amountCentavos,
	)

	return &CreateInvoiceResult{Invoice: dto.ToInvoiceDTO(created)}, nil
}

// FormatInvoiceNumber renders a sequence value as a display number.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}
