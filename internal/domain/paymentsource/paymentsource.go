package paymentsource

import (
	"fmt"
	"time"

	vo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/biztime"
)

// PaymentSource tracks an online gateway payment intent. The source id
// is the gateway's own identifier (a natural key, not generated here),
// and the invoice link may be established after creation because some
// gateways do not round-trip application identifiers.
type PaymentSource struct {
	sourceID        string
	invoiceID       *uint
	amountCentavos  int64
	currency        string
	method          string
	checkoutURL     *string
	status          vo.SourceStatus
	webhookData     map[string]interface{}
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPaymentSource records a freshly created gateway intent.
func NewPaymentSource(sourceID string, invoiceID *uint, amountCentavos int64, currency, method, checkoutURL string) (*PaymentSource, error) {
	if sourceID == "" {
		return nil, fmt.Errorf("source ID is required")
	}
	if amountCentavos <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		currency = sharedvo.DefaultCurrency
	}

	now := biztime.NowUTC()
	ps := &PaymentSource{
		sourceID:       sourceID,
		invoiceID:      invoiceID,
		amountCentavos: amountCentavos,
		currency:       currency,
		method:         method,
		status:         vo.StatusPending,
		createdAt:      now,
		updatedAt:      now,
	}
	if checkoutURL != "" {
		ps.checkoutURL = &checkoutURL
	}

	return ps, nil
}

// ReconstructPaymentSource rebuilds a payment source from persistence.
func ReconstructPaymentSource(
	sourceID string,
	invoiceID *uint,
	amountCentavos int64,
	currency, method string,
	checkoutURL *string,
	status vo.SourceStatus,
	webhookData map[string]interface{},
	createdAt, updatedAt time.Time,
) (*PaymentSource, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment source status: %s", status)
	}
	return &PaymentSource{
		sourceID:       sourceID,
		invoiceID:      invoiceID,
		amountCentavos: amountCentavos,
		currency:       currency,
		method:         method,
		checkoutURL:    checkoutURL,
		status:         status,
		webhookData:    webhookData,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (ps *PaymentSource) SourceID() string {
	return ps.sourceID
}

func (ps *PaymentSource) InvoiceID() *uint {
	return ps.invoiceID
}

func (ps *PaymentSource) AmountCentavos() int64 {
	return ps.amountCentavos
}

func (ps *PaymentSource) Currency() string {
	return ps.currency
}

// Amount converts the minor-unit amount into Money.
func (ps *PaymentSource) Amount() sharedvo.Money {
	return sharedvo.NewMoney(ps.amountCentavos, ps.currency)
}

func (ps *PaymentSource) Method() string {
	return ps.method
}

func (ps *PaymentSource) CheckoutURL() *string {
	return ps.checkoutURL
}

func (ps *PaymentSource) Status() vo.SourceStatus {
	return ps.status
}

func (ps *PaymentSource) WebhookData() map[string]interface{} {
	return ps.webhookData
}

func (ps *PaymentSource) CreatedAt() time.Time {
	return ps.createdAt
}

func (ps *PaymentSource) UpdatedAt() time.Time {
	return ps.updatedAt
}

func (ps *PaymentSource) IsLinked() bool {
	return ps.invoiceID != nil
}
