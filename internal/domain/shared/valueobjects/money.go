package valueobjects

import "fmt"

// DefaultCurrency is the currency used when none is specified.
const DefaultCurrency = "PHP"

// Money is an amount in minor units (centavos) with a currency code.
type Money struct {
	amountInCentavos int64
	currency         string
}

func NewMoney(amountInCentavos int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{
		amountInCentavos: amountInCentavos,
		currency:         currency,
	}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return NewMoney(0, currency)
}

func (m Money) AmountInCentavos() int64 {
	return m.amountInCentavos
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) AmountInPesos() float64 {
	return float64(m.amountInCentavos) / 100.0
}

// Add returns the sum of two amounts. Adding across currencies is a
// programming error and panics.
func (m Money) Add(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot add %s to %s", other.currency, m.currency))
	}
	return Money{
		amountInCentavos: m.amountInCentavos + other.amountInCentavos,
		currency:         m.currency,
	}
}

func (m Money) Equals(other Money) bool {
	return m.amountInCentavos == other.amountInCentavos && m.currency == other.currency
}

// GreaterThanOrEqual compares amounts, ignoring currency only when one
// side is zero.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amountInCentavos >= other.amountInCentavos
}

func (m Money) IsPositive() bool {
	return m.amountInCentavos > 0
}

func (m Money) IsZero() bool {
	return m.amountInCentavos == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.AmountInPesos(), m.currency)
}
