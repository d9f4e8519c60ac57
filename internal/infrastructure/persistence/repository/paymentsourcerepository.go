package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	vo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	invoicevo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/mappers"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
)

type paymentSourceRepository struct {
	db     *gorm.DB
	mapper *mappers.PaymentSourceMapper
}

// NewPaymentSourceRepository creates a GORM-backed payment source
// repository.
func NewPaymentSourceRepository(database *gorm.DB) paymentsource.PaymentSourceRepository {
	return &paymentSourceRepository{
		db:     database,
		mapper: mappers.NewPaymentSourceMapper(),
	}
}

func (r *paymentSourceRepository) Create(ctx context.Context, ps *paymentsource.PaymentSource) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(ps)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("payment source already exists")
		}
		return fmt.Errorf("failed to create payment source: %w", err)
	}
	return nil
}

func (r *paymentSourceRepository) GetBySourceID(ctx context.Context, sourceID string) (*paymentsource.PaymentSource, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.PaymentSourceModel
	if err := tx.Where("source_id = ?", sourceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentsource.ErrPaymentSourceNotFound
		}
		return nil, fmt.Errorf("failed to get payment source: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

// UpdateStatus loads the row under lock, retains the raw payload, and
// applies the status write conditioned on the status it read. A source
// already completed keeps its status; the returned previous status is
// what tells the caller a delivery was a redelivery.
func (r *paymentSourceRepository) UpdateStatus(
	ctx context.Context,
	sourceID string,
	status vo.SourceStatus,
	rawPayload map[string]interface{},
) (vo.SourceStatus, *paymentsource.PaymentSource, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.PaymentSourceModel
	if err := lockForUpdate(tx).Where("source_id = ?", sourceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, paymentsource.ErrPaymentSourceNotFound
		}
		return "", nil, fmt.Errorf("failed to get payment source for update: %w", err)
	}

	prev := vo.SourceStatus(model.Status)
	now := biztime.NowUTC()

	updates := map[string]interface{}{
		"updated_at": now,
	}
	if rawPayload != nil {
		updates["webhook_data"] = datatypes.JSONMap(rawPayload)
	}
	next := prev
	if !prev.IsFinal() && status != prev {
		next = status
		updates["status"] = status.String()
	}

	// Conditioned on the status read above. With the row lock held this
	// always matches; without one a concurrent transition loses the race
	// and the reloaded state wins.
	result := tx.Model(&models.PaymentSourceModel{}).
		Where("source_id = ? AND status = ?", sourceID, prev.String()).
		Updates(updates)
	if result.Error != nil {
		return "", nil, fmt.Errorf("failed to update payment source: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := tx.Where("source_id = ?", sourceID).First(&model).Error; err != nil {
			return "", nil, fmt.Errorf("failed to reload payment source: %w", err)
		}
		record, err := r.mapper.ToDomain(&model)
		if err != nil {
			return "", nil, err
		}
		return vo.SourceStatus(model.Status), record, nil
	}

	model.Status = next.String()
	if rawPayload != nil {
		model.WebhookData = datatypes.JSONMap(rawPayload)
	}
	model.UpdatedAt = now

	record, err := r.mapper.ToDomain(&model)
	if err != nil {
		return "", nil, err
	}
	return prev, record, nil
}

// ResolveInvoiceFallback links the source to the most recent unpaid
// invoice created today that no other source has claimed. The link write
// is conditioned on invoice_id still being NULL, so the assignment
// happens at most once no matter how often the event is redelivered.
func (r *paymentSourceRepository) ResolveInvoiceFallback(ctx context.Context, sourceID string) (*paymentsource.PaymentSource, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.PaymentSourceModel
	if err := lockForUpdate(tx).Where("source_id = ?", sourceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentsource.ErrPaymentSourceNotFound
		}
		return nil, fmt.Errorf("failed to get payment source: %w", err)
	}

	if model.InvoiceID != nil {
		return r.mapper.ToDomain(&model)
	}

	now := biztime.NowUTC()
	dayStart := biztime.StartOfDayUTC(now)
	dayEnd := biztime.EndOfDayUTC(now)

	var candidate models.InvoiceModel
	err := tx.Where(
		"status = ? AND created_at BETWEEN ? AND ? AND id NOT IN (?)",
		invoicevo.StatusUnpaid.String(),
		dayStart,
		dayEnd,
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.PaymentSourceModel{}).
			Select("invoice_id").
			Where("invoice_id IS NOT NULL"),
	).
		Order("created_at DESC").
		First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.mapper.ToDomain(&model)
		}
		return nil, fmt.Errorf("failed to find fallback invoice: %w", err)
	}

	result := tx.Model(&models.PaymentSourceModel{}).
		Where("source_id = ? AND invoice_id IS NULL", sourceID).
		Updates(map[string]interface{}{
			"invoice_id": candidate.ID,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to link payment source: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := tx.Where("source_id = ?", sourceID).First(&model).Error; err != nil {
			return nil, fmt.Errorf("failed to reload payment source: %w", err)
		}
		return r.mapper.ToDomain(&model)
	}

	model.InvoiceID = &candidate.ID
	model.UpdatedAt = now
	return r.mapper.ToDomain(&model)
}

func (r *paymentSourceRepository) ListUnresolvedCompleted(ctx context.Context) ([]*paymentsource.PaymentSource, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var modelList []models.PaymentSourceModel
	if err := tx.Where("status = ? AND invoice_id IS NULL", vo.StatusCompleted.String()).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list unresolved payment sources: %w", err)
	}

	sources := make([]*paymentsource.PaymentSource, 0, len(modelList))
	for i := range modelList {
		src, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
