package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/invoice"
	invoicevo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/mappers"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
)

const invoiceSequenceID = 1

type invoiceRepository struct {
	db     *gorm.DB
	mapper *mappers.InvoiceMapper
}

// NewInvoiceRepository creates a GORM-backed invoice repository.
func NewInvoiceRepository(database *gorm.DB) invoice.InvoiceRepository {
	return &invoiceRepository{
		db:     database,
		mapper: mappers.NewInvoiceMapper(),
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(inv)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("invoice number already allocated")
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	inv.SetID(model.ID)
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, invID uint) (*invoice.Invoice, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.InvoiceModel
	if err := tx.Where("id = ?", invID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(inv)
	result := tx.Model(&models.InvoiceModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"amount":     model.Amount,
			"late_fees":  model.LateFees,
			"due_date":   model.DueDate,
			"status":     model.Status,
			"notes":      model.Notes,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

// NextInvoiceNumber advances the single counter row and reads it back
// inside the caller's transaction. The UPDATE takes the row lock, so
// concurrent allocations serialize and the sequence never collides.
func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.InvoiceSequenceModel{}).
		Where("id = ?", invoiceSequenceID).
		Update("next_value", gorm.Expr("next_value + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to advance invoice sequence: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// First allocation ever: seed the counter. A concurrent seeder
		// surfaces as a duplicate key, in which case the increment path
		// is retried.
		seed := models.InvoiceSequenceModel{ID: invoiceSequenceID, NextValue: 1}
		if err := tx.Create(&seed).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return r.NextInvoiceNumber(ctx)
			}
			return 0, fmt.Errorf("failed to seed invoice sequence: %w", err)
		}
		return 1, nil
	}

	var seq models.InvoiceSequenceModel
	if err := tx.Where("id = ?", invoiceSequenceID).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to read invoice sequence: %w", err)
	}
	return seq.NextValue, nil
}

func (r *invoiceRepository) FindSettlementTarget(ctx context.Context, subscriptionID uint) (*invoice.Invoice, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	settleable := []string{
		invoicevo.StatusUnpaid.String(),
		invoicevo.StatusPartiallyPaid.String(),
		invoicevo.StatusOverdue.String(),
	}

	var model models.InvoiceModel
	err := tx.Where("subscription_id = ? AND status IN ?", subscriptionID, settleable).
		Order("due_date IS NULL, due_date DESC, created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find settlement target: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *invoiceRepository) FindLatestBySubscription(ctx context.Context, subscriptionID uint) (*invoice.Invoice, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.InvoiceModel
	err := tx.Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest invoice: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *invoiceRepository) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*invoice.Invoice, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var modelList []models.InvoiceModel
	if err := tx.Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*invoice.Invoice, 0, len(modelList))
	for i := range modelList {
		inv, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// ArchiveStale goes through the aggregate row by row so the archive note
// gets the same date suffix the domain applies everywhere else.
func (r *invoiceRepository) ArchiveStale(ctx context.Context, subscriptionID uint, cutoff time.Time, note string) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	archivable := []string{
		invoicevo.StatusUnpaid.String(),
		invoicevo.StatusOverdue.String(),
	}

	var modelList []models.InvoiceModel
	if err := lockForUpdate(tx).
		Where("subscription_id = ? AND status IN ? AND created_at < ?", subscriptionID, archivable, cutoff).
		Find(&modelList).Error; err != nil {
		return 0, fmt.Errorf("failed to load stale invoices: %w", err)
	}

	var archived int64
	for i := range modelList {
		inv, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return archived, err
		}
		if err := inv.Archive(note); err != nil {
			return archived, err
		}
		if err := r.Update(ctx, inv); err != nil {
			return archived, err
		}
		archived++
	}
	return archived, nil
}

func (r *invoiceRepository) MarkOverdueDue(ctx context.Context, now time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.InvoiceModel{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", invoicevo.StatusUnpaid.String(), now).
		Updates(map[string]interface{}{
			"status":     invoicevo.StatusOverdue.String(),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark invoices overdue: %w", result.Error)
	}
	return result.RowsAffected, nil
}
