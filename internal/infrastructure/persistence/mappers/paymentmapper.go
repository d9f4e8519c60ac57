package mappers

import (
	"github.com/hakot-io/hakot/internal/domain/payment"
	vo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
)

// PaymentMapper converts between the payment aggregate and its GORM model.
type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToModel(pay *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:              pay.ID(),
		SID:             pay.SID(),
		InvoiceID:       pay.InvoiceID(),
		Amount:          pay.Amount().AmountInCentavos(),
		Currency:        pay.Amount().Currency(),
		Method:          pay.Method().String(),
		ReferenceNumber: pay.ReferenceNumber(),
		PaymentDate:     pay.PaymentDate(),
		CreatedAt:       pay.CreatedAt(),
	}
}

func (m *PaymentMapper) ToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	method, err := vo.NewPaymentMethod(model.Method)
	if err != nil {
		return nil, err
	}

	return payment.ReconstructPayment(
		model.ID,
		model.SID,
		model.InvoiceID,
		sharedvo.NewMoney(model.Amount, model.Currency),
		method,
		model.ReferenceNumber,
		model.PaymentDate,
		model.CreatedAt,
	), nil
}
