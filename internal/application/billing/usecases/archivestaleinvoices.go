package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/hakot-io/hakot/internal/domain/invoice"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// DefaultArchiveCutoffDays is how old an open invoice must be before a
// reactivation archives it.
const DefaultArchiveCutoffDays = 30

// ArchiveStaleInvoicesCommand archives open invoices older than the
// cutoff. CutoffDays of 0 means the default.
type ArchiveStaleInvoicesCommand struct {
	SubscriptionID uint
	CutoffDays     int
	Note           string
}

// ArchiveStaleInvoicesResult reports how many invoices were archived.
type ArchiveStaleInvoicesResult struct {
	ArchivedCount int64
}

// ArchiveStaleInvoicesUseCase closes out old unpaid and overdue invoices
// so a returning resident is not confronted with a stack of dead bills.
type ArchiveStaleInvoicesUseCase struct {
	invoiceRepo      invoice.InvoiceRepository
	subscriptionRepo subscription.SubscriptionRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

// NewArchiveStaleInvoicesUseCase creates a new ArchiveStaleInvoicesUseCase.
func NewArchiveStaleInvoicesUseCase(
	invoiceRepo invoice.InvoiceRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *ArchiveStaleInvoicesUseCase {
	return &ArchiveStaleInvoicesUseCase{
		invoiceRepo:      invoiceRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute archives the stale invoices.
func (uc *ArchiveStaleInvoicesUseCase) Execute(ctx context.Context, cmd ArchiveStaleInvoicesCommand) (*ArchiveStaleInvoicesResult, error) {
	cutoffDays := cmd.CutoffDays
	if cutoffDays <= 0 {
		cutoffDays = DefaultArchiveCutoffDays
	}

	note := cmd.Note
	if note == "" {
		note = fmt.Sprintf("auto-archived: open for more than %d days", cutoffDays)
	}

	cutoff := biztime.NowUTC().AddDate(0, 0, -cutoffDays)

	var archived int64
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.subscriptionRepo.GetByID(txCtx, cmd.SubscriptionID); err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				return apperrors.NewNotFoundError("subscription not found")
			}
			return err
		}

		var err error
		archived, err = uc.invoiceRepo.ArchiveStale(txCtx, cmd.SubscriptionID, cutoff, note)
		return err
	})
	if err != nil {
		uc.logger.Errorw("failed to archive stale invoices",
			"subscription_id", cmd.SubscriptionID,
			"error", err,
		)
		return nil, err
	}

	if archived > 0 {
		uc.logger.Infow("archived stale invoices",
			"subscription_id", cmd.SubscriptionID,
			"count", archived,
			"cutoff_days", cutoffDays,
		)
	}

	return &ArchiveStaleInvoicesResult{ArchivedCount: archived}, nil
}
