package usecases

import (
	"context"

	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// MarkOverdueInvoicesResult reports how many invoices the sweep flagged.
type MarkOverdueInvoicesResult struct {
	MarkedCount int64
}

// MarkOverdueInvoicesUseCase is the scheduled sweep that flags unpaid
// invoices whose due date has passed. Run from the CLI or a scheduler.
type MarkOverdueInvoicesUseCase struct {
	invoiceRepo invoice.InvoiceRepository
	logger      logger.Interface
}

// NewMarkOverdueInvoicesUseCase creates a new MarkOverdueInvoicesUseCase.
func NewMarkOverdueInvoicesUseCase(
	invoiceRepo invoice.InvoiceRepository,
	logger logger.Interface,
) *MarkOverdueInvoicesUseCase {
	return &MarkOverdueInvoicesUseCase{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Execute flags all due invoices. The write is a single conditional
// update, so no transaction wrapper is needed.
func (uc *MarkOverdueInvoicesUseCase) Execute(ctx context.Context) (*MarkOverdueInvoicesResult, error) {
	marked, err := uc.invoiceRepo.MarkOverdueDue(ctx, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to mark overdue invoices", "error", err)
		return nil, err
	}

	if marked > 0 {
		uc.logger.Infow("marked invoices overdue", "count", marked)
	}

	return &MarkOverdueInvoicesResult{MarkedCount: marked}, nil
}
