package invoice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	due := time.Now().UTC().AddDate(0, 0, 7)
	inv, err := NewInvoice(1, "INV-000001", sharedvo.NewMoney(19900, "PHP"), &due, KindRegistration)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice_ValidInput(t *testing.T) {
	inv := newTestInvoice(t)

	assert.Equal(t, vo.StatusUnpaid, inv.Status())
	assert.Equal(t, "INV-000001", inv.InvoiceNumber())
	assert.Equal(t, int64(19900), inv.Amount().AmountInCentavos())
	assert.True(t, inv.LateFees().IsZero())
	assert.Equal(t, KindRegistration, inv.Kind())
	assert.NotEmpty(t, inv.SID())
}

func TestNewInvoice_RejectsZeroAmount(t *testing.T) {
	_, err := NewInvoice(1, "INV-000002", sharedvo.NewMoney(0, "PHP"), nil, KindRenewal)
	assert.Error(t, err)
}

func TestNewInvoice_RejectsMissingNumber(t *testing.T) {
	_, err := NewInvoice(1, "", sharedvo.NewMoney(100, "PHP"), nil, KindRenewal)
	assert.Error(t, err)
}

func TestInvoice_MarkPaid(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, vo.StatusPaid, inv.Status())

	// repeat settle is a no-op
	version := inv.Version()
	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, version, inv.Version())
}

func TestInvoice_MarkPaid_ArchivedFails(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Archive("stale"))

	err := inv.MarkPaid()
	assert.Error(t, err)
	assert.Equal(t, vo.StatusArchived, inv.Status())
}

func TestInvoice_ApplySettlement(t *testing.T) {
	tests := []struct {
		name      string
		paidTotal int64
		want      vo.InvoiceStatus
	}{
		{"nothing paid leaves unpaid", 0, vo.StatusUnpaid},
		{"partial payment", 5000, vo.StatusPartiallyPaid},
		{"exact payment settles", 19900, vo.StatusPaid},
		{"overpayment settles", 25000, vo.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t)
			err := inv.ApplySettlement(sharedvo.NewMoney(tt.paidTotal, "PHP"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Status())
		})
	}
}

func TestInvoice_ApplySettlement_CountsLateFees(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.ApplyLateFee(sharedvo.NewMoney(2500, "PHP")))

	// covering only the base amount is still partial once fees accrued
	require.NoError(t, inv.ApplySettlement(sharedvo.NewMoney(19900, "PHP")))
	assert.Equal(t, vo.StatusPartiallyPaid, inv.Status())

	require.NoError(t, inv.ApplySettlement(sharedvo.NewMoney(22400, "PHP")))
	assert.Equal(t, vo.StatusPaid, inv.Status())
}

func TestInvoice_ApplySettlement_ArchivedFails(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Archive("stale"))

	err := inv.ApplySettlement(sharedvo.NewMoney(19900, "PHP"))
	assert.Error(t, err)
}

func TestInvoice_MarkOverdue(t *testing.T) {
	past := time.Now().UTC().AddDate(0, 0, -3)
	inv, err := NewInvoice(1, "INV-000003", sharedvo.NewMoney(19900, "PHP"), &past, KindRenewal)
	require.NoError(t, err)

	require.NoError(t, inv.MarkOverdue())
	assert.Equal(t, vo.StatusOverdue, inv.Status())
}

func TestInvoice_MarkOverdue_NotYetDue(t *testing.T) {
	inv := newTestInvoice(t)
	err := inv.MarkOverdue()
	assert.Error(t, err)
	assert.Equal(t, vo.StatusUnpaid, inv.Status())
}

func TestInvoice_Archive(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.Archive("stale invoice from reactivation cleanup"))

	assert.Equal(t, vo.StatusArchived, inv.Status())
	require.NotNil(t, inv.Notes())
	assert.True(t, strings.Contains(*inv.Notes(), "archived"), "audit note should record the archive date")
}

func TestInvoice_Archive_PartiallyPaidRefused(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.ApplySettlement(sharedvo.NewMoney(100, "PHP")))

	err := inv.Archive("stale")
	assert.Error(t, err)
	assert.Equal(t, vo.StatusPartiallyPaid, inv.Status())
}

func TestInvoice_TotalDue(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.ApplyLateFee(sharedvo.NewMoney(100, "PHP")))
	assert.Equal(t, int64(20000), inv.TotalDue().AmountInCentavos())
}
