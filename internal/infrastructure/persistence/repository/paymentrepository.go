package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/payment"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/mappers"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/shared/db"
)

type paymentRepository struct {
	db     *gorm.DB
	mapper *mappers.PaymentMapper
}

// NewPaymentRepository creates a GORM-backed payment repository. Payment
// rows are append-only; there is no update or delete path.
func NewPaymentRepository(database *gorm.DB) payment.PaymentRepository {
	return &paymentRepository{
		db:     database,
		mapper: mappers.NewPaymentMapper(),
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(p)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	p.SetID(model.ID)
	return nil
}

func (r *paymentRepository) ListByInvoiceID(ctx context.Context, invoiceID uint) ([]*payment.Payment, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var modelList []models.PaymentModel
	if err := tx.Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, id ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(modelList))
	for i := range modelList {
		p, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *paymentRepository) SumByInvoiceID(ctx context.Context, invoiceID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	err := tx.Model(&models.PaymentModel{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

func (r *paymentRepository) ExistsByInvoiceAndReference(ctx context.Context, invoiceID uint, referenceNumber string) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	err := tx.Model(&models.PaymentModel{}).
		Where("invoice_id = ? AND reference_number = ?", invoiceID, referenceNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check payment reference: %w", err)
	}
	return count > 0, nil
}
