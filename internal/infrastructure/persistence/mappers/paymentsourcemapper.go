package mappers

import (
	"gorm.io/datatypes"

	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	vo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
)

// PaymentSourceMapper converts between the payment source aggregate and
// its GORM model.
type PaymentSourceMapper struct{}

func NewPaymentSourceMapper() *PaymentSourceMapper {
	return &PaymentSourceMapper{}
}

func (m *PaymentSourceMapper) ToModel(src *paymentsource.PaymentSource) *models.PaymentSourceModel {
	return &models.PaymentSourceModel{
		SourceID:    src.SourceID(),
		InvoiceID:   src.InvoiceID(),
		Amount:      src.AmountCentavos(),
		Currency:    src.Currency(),
		Method:      src.Method(),
		CheckoutURL: src.CheckoutURL(),
		Status:      src.Status().String(),
		WebhookData: datatypes.JSONMap(src.WebhookData()),
		CreatedAt:   src.CreatedAt(),
		UpdatedAt:   src.UpdatedAt(),
	}
}

func (m *PaymentSourceMapper) ToDomain(model *models.PaymentSourceModel) (*paymentsource.PaymentSource, error) {
	return paymentsource.ReconstructPaymentSource(
		model.SourceID,
		model.InvoiceID,
		model.Amount,
		model.Currency,
		model.Method,
		model.CheckoutURL,
		vo.SourceStatus(model.Status),
		map[string]interface{}(model.WebhookData),
		model.CreatedAt,
		model.UpdatedAt,
	)
}
