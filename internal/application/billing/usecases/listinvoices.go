package usecases

import (
	"context"

	"github.com/hakot-io/hakot/internal/application/billing/dto"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// ListInvoicesCommand lists a subscription's invoices, newest first.
type ListInvoicesCommand struct {
	SubscriptionID uint
}

// ListInvoicesResult carries the invoices.
type ListInvoicesResult struct {
	Invoices []*dto.InvoiceDTO
}

// ListInvoicesUseCase is the read path behind the invoice listing
// endpoint.
type ListInvoicesUseCase struct {
	invoiceRepo invoice.InvoiceRepository
	logger      logger.Interface
}

// NewListInvoicesUseCase creates a new ListInvoicesUseCase.
func NewListInvoicesUseCase(invoiceRepo invoice.InvoiceRepository, logger logger.Interface) *ListInvoicesUseCase {
	return &ListInvoicesUseCase{invoiceRepo: invoiceRepo, logger: logger}
}

// Execute lists the invoices.
func (uc *ListInvoicesUseCase) Execute(ctx context.Context, cmd ListInvoicesCommand) (*ListInvoicesResult, error) {
	invoices, err := uc.invoiceRepo.ListBySubscription(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to list invoices", "subscription_id", cmd.SubscriptionID, "error", err)
		return nil, err
	}

	return &ListInvoicesResult{Invoices: dto.ToInvoiceDTOList(invoices)}, nil
}
