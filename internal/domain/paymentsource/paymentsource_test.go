package paymentsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
)

func TestNewPaymentSource_ValidInput(t *testing.T) {
	ps, err := NewPaymentSource("src_abc123", nil, 19900, "PHP", "gcash", "https://gw.test/checkout/src_abc123")

	require.NoError(t, err)
	assert.Equal(t, "src_abc123", ps.SourceID())
	assert.Equal(t, vo.StatusPending, ps.Status())
	assert.Nil(t, ps.InvoiceID())
	assert.False(t, ps.IsLinked())
	assert.Equal(t, int64(19900), ps.Amount().AmountInCentavos())
	assert.Equal(t, "PHP", ps.Amount().Currency())
	require.NotNil(t, ps.CheckoutURL())
}

func TestNewPaymentSource_WithInvoiceLink(t *testing.T) {
	invoiceID := uint(42)
	ps, err := NewPaymentSource("src_abc124", &invoiceID, 19900, "", "card", "")

	require.NoError(t, err)
	assert.True(t, ps.IsLinked())
	assert.Equal(t, "PHP", ps.Currency(), "currency defaults to PHP")
	assert.Nil(t, ps.CheckoutURL())
}

func TestNewPaymentSource_RejectsEmptySourceID(t *testing.T) {
	_, err := NewPaymentSource("", nil, 19900, "PHP", "gcash", "")
	assert.Error(t, err)
}

func TestNewPaymentSource_RejectsNonPositiveAmount(t *testing.T) {
	_, err := NewPaymentSource("src_abc125", nil, 0, "PHP", "gcash", "")
	assert.Error(t, err)
}

func TestSourceStatus_Validity(t *testing.T) {
	for _, valid := range []string{"pending", "completed", "failed"} {
		s, err := vo.NewSourceStatus(valid)
		require.NoError(t, err)
		assert.True(t, s.IsValid())
	}

	_, err := vo.NewSourceStatus("chargeable")
	assert.Error(t, err, "gateway statuses must be mapped before reaching the domain")
}

func TestSourceStatus_CompletedIsFinal(t *testing.T) {
	assert.True(t, vo.StatusCompleted.IsFinal())
	assert.False(t, vo.StatusPending.IsFinal())
	assert.False(t, vo.StatusFailed.IsFinal())
}
