package usecases

import (
	"context"
	"errors"

	"github.com/hakot-io/hakot/internal/application/billing/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/payment"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// RecomputeInvoiceStatusCommand re-derives an invoice's status from the
// sum of its recorded payments.
type RecomputeInvoiceStatusCommand struct {
	InvoiceID uint
}

// RecomputeInvoiceStatusResult carries the invoice after recompute.
type RecomputeInvoiceStatusResult struct {
	Invoice           *dto.InvoiceDTO
	PaidTotalCentavos int64
}

// RecomputeInvoiceStatusUseCase applies the derived-status rule: paid
// when settled payments cover amount plus late fees, partially paid when
// something but not everything is settled.
type RecomputeInvoiceStatusUseCase struct {
	invoiceRepo invoice.InvoiceRepository
	paymentRepo payment.PaymentRepository
	txManager   *db.TransactionManager
	logger      logger.Interface
}

// NewRecomputeInvoiceStatusUseCase creates a new RecomputeInvoiceStatusUseCase.
func NewRecomputeInvoiceStatusUseCase(
	invoiceRepo invoice.InvoiceRepository,
	paymentRepo payment.PaymentRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *RecomputeInvoiceStatusUseCase {
	return &RecomputeInvoiceStatusUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute recomputes and persists the invoice status.
func (uc *RecomputeInvoiceStatusUseCase) Execute(ctx context.Context, cmd RecomputeInvoiceStatusCommand) (*RecomputeInvoiceStatusResult, error) {
	var (
		updated   *invoice.Invoice
		paidTotal int64
	)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		inv, err := uc.invoiceRepo.GetByID(txCtx, cmd.InvoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return apperrors.NewNotFoundError("invoice not found")
			}
			return err
		}

		paidTotal, err = uc.paymentRepo.SumByInvoiceID(txCtx, cmd.InvoiceID)
		if err != nil {
			return err
		}

		paid := sharedvo.NewMoney(paidTotal, inv.Amount().Currency())
		if err := inv.ApplySettlement(paid); err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if err := uc.invoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to recompute invoice status",
			"invoice_id", cmd.InvoiceID,
			"error", err,
		)
		return nil, err
	}

	return &RecomputeInvoiceStatusResult{
		Invoice:           dto.ToInvoiceDTO(updated),
		PaidTotalCentavos: paidTotal,
	}, nil
}
