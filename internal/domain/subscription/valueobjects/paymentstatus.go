package valueobjects

// PaymentStatus tracks whether the current billing cycle has been settled.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}
