package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
)

// AutoMigrate creates or updates the schema for every persistence model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.SubscriptionModel{},
		&models.InvoiceModel{},
		&models.InvoiceSequenceModel{},
		&models.PaymentModel{},
		&models.PaymentSourceModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
