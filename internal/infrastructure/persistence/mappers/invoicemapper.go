package mappers

import (
	"github.com/hakot-io/hakot/internal/domain/invoice"
	vo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
)

// InvoiceMapper converts between the invoice aggregate and its GORM model.
type InvoiceMapper struct{}

func NewInvoiceMapper() *InvoiceMapper {
	return &InvoiceMapper{}
}

func (m *InvoiceMapper) ToModel(inv *invoice.Invoice) *models.InvoiceModel {
	return &models.InvoiceModel{
		ID:             inv.ID(),
		SID:            inv.SID(),
		InvoiceNumber:  inv.InvoiceNumber(),
		SubscriptionID: inv.SubscriptionID(),
		Amount:         inv.Amount().AmountInCentavos(),
		LateFees:       inv.LateFees().AmountInCentavos(),
		Currency:       inv.Amount().Currency(),
		DueDate:        inv.DueDate(),
		Status:         inv.Status().String(),
		Kind:           inv.Kind(),
		Notes:          inv.Notes(),
		Version:        inv.Version(),
		CreatedAt:      inv.CreatedAt(),
		UpdatedAt:      inv.UpdatedAt(),
	}
}

func (m *InvoiceMapper) ToDomain(model *models.InvoiceModel) (*invoice.Invoice, error) {
	return invoice.ReconstructInvoice(invoice.InvoiceReconstructParams{
		ID:             model.ID,
		SID:            model.SID,
		InvoiceNumber:  model.InvoiceNumber,
		SubscriptionID: model.SubscriptionID,
		Amount:         sharedvo.NewMoney(model.Amount, model.Currency),
		LateFees:       sharedvo.NewMoney(model.LateFees, model.Currency),
		DueDate:        model.DueDate,
		Status:         vo.InvoiceStatus(model.Status),
		Kind:           model.Kind,
		Notes:          model.Notes,
		Version:        model.Version,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
}
