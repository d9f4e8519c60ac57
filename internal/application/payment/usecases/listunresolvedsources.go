package usecases

import (
	"context"

	"github.com/hakot-io/hakot/internal/application/payment/dto"
	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// ListUnresolvedSourcesResult carries the manual reconciliation queue:
// completed sources that never got linked to an invoice.
type ListUnresolvedSourcesResult struct {
	Sources []*dto.PaymentSourceDTO
}

// ListUnresolvedSourcesUseCase surfaces money the gateway collected that
// the ledger has not yet accounted for.
type ListUnresolvedSourcesUseCase struct {
	sourceRepo paymentsource.PaymentSourceRepository
	logger     logger.Interface
}

// NewListUnresolvedSourcesUseCase creates a new ListUnresolvedSourcesUseCase.
func NewListUnresolvedSourcesUseCase(
	sourceRepo paymentsource.PaymentSourceRepository,
	logger logger.Interface,
) *ListUnresolvedSourcesUseCase {
	return &ListUnresolvedSourcesUseCase{sourceRepo: sourceRepo, logger: logger}
}

// Execute lists the unresolved sources.
func (uc *ListUnresolvedSourcesUseCase) Execute(ctx context.Context) (*ListUnresolvedSourcesResult, error) {
	sources, err := uc.sourceRepo.ListUnresolvedCompleted(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list unresolved sources", "error", err)
		return nil, err
	}

	dtos := make([]*dto.PaymentSourceDTO, 0, len(sources))
	for _, src := range sources {
		dtos = append(dtos, dto.ToPaymentSourceDTO(src))
	}
	return &ListUnresolvedSourcesResult{Sources: dtos}, nil
}
