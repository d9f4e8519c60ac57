package payment

import (
	"fmt"
	"time"

	vo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/id"
)

// Payment is one settled amount applied against an invoice. Rows are
// append-only: a payment is never modified or deleted once written, and
// rows are only created inside the activation transaction.
type Payment struct {
	payID           uint
	sid             string
	invoiceID       uint
	amount          sharedvo.Money
	method          vo.PaymentMethod
	referenceNumber *string
	paymentDate     time.Time
	createdAt       time.Time
}

// NewPayment records a settled amount against an invoice.
func NewPayment(invoiceID uint, amount sharedvo.Money, method vo.PaymentMethod, referenceNumber string) (*Payment, error) {
	if invoiceID == 0 {
		return nil, fmt.Errorf("invoice ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("invalid payment method: %s", method)
	}

	now := biztime.NowUTC()
	p := &Payment{
		sid:         id.MustGenerateWithPrefix(id.PrefixPayment, id.DefaultLength),
		invoiceID:   invoiceID,
		amount:      amount,
		method:      method,
		paymentDate: now,
		createdAt:   now,
	}
	if referenceNumber != "" {
		p.referenceNumber = &referenceNumber
	}

	return p, nil
}

// ReconstructPayment rebuilds a payment from persistence.
func ReconstructPayment(
	payID uint,
	sid string,
	invoiceID uint,
	amount sharedvo.Money,
	method vo.PaymentMethod,
	referenceNumber *string,
	paymentDate time.Time,
	createdAt time.Time,
) *Payment {
	return &Payment{
		payID:           payID,
		sid:             sid,
		invoiceID:       invoiceID,
		amount:          amount,
		method:          method,
		referenceNumber: referenceNumber,
		paymentDate:     paymentDate,
		createdAt:       createdAt,
	}
}

func (p *Payment) ID() uint {
	return p.payID
}

func (p *Payment) SID() string {
	return p.sid
}

func (p *Payment) InvoiceID() uint {
	return p.invoiceID
}

func (p *Payment) Amount() sharedvo.Money {
	return p.amount
}

func (p *Payment) Method() vo.PaymentMethod {
	return p.method
}

func (p *Payment) ReferenceNumber() *string {
	return p.referenceNumber
}

func (p *Payment) PaymentDate() time.Time {
	return p.paymentDate
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

// SetID sets the payment ID after persistence.
func (p *Payment) SetID(payID uint) {
	p.payID = payID
}

// SetPaymentDate overrides the payment date, used when a collector
// records a payment received earlier.
func (p *Payment) SetPaymentDate(date time.Time) {
	p.paymentDate = date
}
