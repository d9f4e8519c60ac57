package valueobjects

import "fmt"

// PaymentMethod is the channel a payment arrived through: collector
// confirmed cash or the online gateway.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodGateway PaymentMethod = "gateway"
)

func NewPaymentMethod(method string) (PaymentMethod, error) {
	m := PaymentMethod(method)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid payment method: %s", method)
	}
	return m, nil
}

func (m PaymentMethod) IsValid() bool {
	return m == MethodCash || m == MethodGateway
}

func (m PaymentMethod) String() string {
	return string(m)
}
