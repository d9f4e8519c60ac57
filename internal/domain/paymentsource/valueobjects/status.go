package valueobjects

import "fmt"

// SourceStatus is the gateway-side state of a payment intent. completed
// is sticky: once a source has completed, later deliveries of pending or
// failed must not regress it.
type SourceStatus string

const (
	StatusPending   SourceStatus = "pending"
	StatusCompleted SourceStatus = "completed"
	StatusFailed    SourceStatus = "failed"
)

func NewSourceStatus(status string) (SourceStatus, error) {
	s := SourceStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid payment source status: %s", status)
	}
	return s, nil
}

func (s SourceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

func (s SourceStatus) String() string {
	return string(s)
}

// IsFinal reports whether the status accepts no further transitions
// besides redeliveries of itself.
func (s SourceStatus) IsFinal() bool {
	return s == StatusCompleted
}
