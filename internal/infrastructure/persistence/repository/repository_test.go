package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/invoice"
	invoicevo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/payment"
	paymentvo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	sourcevo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/shared/biztime"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SubscriptionModel{},
		&models.InvoiceModel{},
		&models.InvoiceSequenceModel{},
		&models.PaymentModel{},
		&models.PaymentSourceModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestSubscription(t *testing.T, db *gorm.DB) *subscription.Subscription {
	t.Helper()

	sub, err := subscription.NewSubscription(1, 1)
	require.NoError(t, err)

	repo := NewSubscriptionRepository(db)
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func testMoney(centavos int64) sharedvo.Money {
	return sharedvo.NewMoney(centavos, "PHP")
}

func createTestInvoice(t *testing.T, db *gorm.DB, subID uint, number string, dueDate *time.Time) *invoice.Invoice {
	t.Helper()

	inv, err := invoice.NewInvoice(subID, number, testMoney(19900), dueDate, invoice.KindRegistration)
	require.NoError(t, err)

	repo := NewInvoiceRepository(db)
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func TestInvoiceRepository_NextInvoiceNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	t.Run("seeds on first allocation", func(t *testing.T) {
		seq, err := repo.NextInvoiceNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run("strictly monotonic", func(t *testing.T) {
		var last int64 = 1
		for i := 0; i < 5; i++ {
			seq, err := repo.NextInvoiceNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, last+1, seq)
			last = seq
		}
	})
}

func TestInvoiceRepository_FindSettlementTarget(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	sub := createTestSubscription(t, db)

	t.Run("nil when no invoices", func(t *testing.T) {
		target, err := repo.FindSettlementTarget(ctx, sub.ID())
		require.NoError(t, err)
		assert.Nil(t, target)
	})

	t.Run("prefers most recent due date, undated last", func(t *testing.T) {
		earlier := biztime.NowUTC().AddDate(0, 0, -10)
		later := biztime.NowUTC().AddDate(0, 0, 5)

		createTestInvoice(t, db, sub.ID(), "INV-000001", nil)
		createTestInvoice(t, db, sub.ID(), "INV-000002", &earlier)
		wanted := createTestInvoice(t, db, sub.ID(), "INV-000003", &later)

		target, err := repo.FindSettlementTarget(ctx, sub.ID())
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, wanted.ID(), target.ID())
	})

	t.Run("skips paid and archived invoices", func(t *testing.T) {
		res := db.Model(&models.InvoiceModel{}).
			Where("invoice_number = ?", "INV-000003").
			Update("status", invoicevo.StatusPaid.String())
		require.NoError(t, res.Error)

		target, err := repo.FindSettlementTarget(ctx, sub.ID())
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, "INV-000002", target.InvoiceNumber())
	})
}

func TestInvoiceRepository_MarkOverdueDue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	sub := createTestSubscription(t, db)
	past := biztime.NowUTC().AddDate(0, 0, -3)
	future := biztime.NowUTC().AddDate(0, 0, 3)

	overdue := createTestInvoice(t, db, sub.ID(), "INV-000010", &past)
	current := createTestInvoice(t, db, sub.ID(), "INV-000011", &future)
	undated := createTestInvoice(t, db, sub.ID(), "INV-000012", nil)

	marked, err := repo.MarkOverdueDue(ctx, biztime.NowUTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	reloaded, err := repo.GetByID(ctx, overdue.ID())
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusOverdue, reloaded.Status())

	for _, inv := range []*invoice.Invoice{current, undated} {
		reloaded, err := repo.GetByID(ctx, inv.ID())
		require.NoError(t, err)
		assert.Equal(t, invoicevo.StatusUnpaid, reloaded.Status())
	}
}

func TestInvoiceRepository_ArchiveStale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	sub := createTestSubscription(t, db)

	stale := createTestInvoice(t, db, sub.ID(), "INV-000020", nil)
	fresh := createTestInvoice(t, db, sub.ID(), "INV-000021", nil)

	// Backdate the stale invoice past the cutoff.
	res := db.Model(&models.InvoiceModel{}).
		Where("id = ?", stale.ID()).
		Update("created_at", biztime.NowUTC().AddDate(0, 0, -45))
	require.NoError(t, res.Error)

	cutoff := biztime.NowUTC().AddDate(0, 0, -30)
	archived, err := repo.ArchiveStale(ctx, sub.ID(), cutoff, "archived on reactivation")
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	reloaded, err := repo.GetByID(ctx, stale.ID())
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusArchived, reloaded.Status())
	require.NotNil(t, reloaded.Notes())
	assert.Contains(t, *reloaded.Notes(), "archived on reactivation")

	reloaded, err = repo.GetByID(ctx, fresh.ID())
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusUnpaid, reloaded.Status())
}

func TestPaymentRepository_SumAndDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	sub := createTestSubscription(t, db)
	inv := createTestInvoice(t, db, sub.ID(), "INV-000030", nil)

	total, err := repo.SumByInvoiceID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	p1, err := payment.NewPayment(inv.ID(), testMoney(10000), paymentvo.MethodCash, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p1))

	p2, err := payment.NewPayment(inv.ID(), testMoney(9900), paymentvo.MethodGateway, "src_abc")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p2))

	total, err = repo.SumByInvoiceID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(19900), total)

	exists, err := repo.ExistsByInvoiceAndReference(ctx, inv.ID(), "src_abc")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByInvoiceAndReference(ctx, inv.ID(), "src_other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPaymentSourceRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentSourceRepository(db)
	ctx := context.Background()

	src, err := paymentsource.NewPaymentSource("src_1", nil, 19900, "PHP", "gcash", "https://checkout.test/1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, src))

	t.Run("first completion reports pending as previous", func(t *testing.T) {
		prev, record, err := repo.UpdateStatus(ctx, "src_1", sourcevo.StatusCompleted, map[string]interface{}{"event": "chargeable"})
		require.NoError(t, err)
		assert.Equal(t, sourcevo.StatusPending, prev)
		assert.Equal(t, sourcevo.StatusCompleted, record.Status())
	})

	t.Run("redelivery reports completed as previous", func(t *testing.T) {
		prev, record, err := repo.UpdateStatus(ctx, "src_1", sourcevo.StatusCompleted, map[string]interface{}{"event": "chargeable", "retry": true})
		require.NoError(t, err)
		assert.Equal(t, sourcevo.StatusCompleted, prev)
		assert.Equal(t, sourcevo.StatusCompleted, record.Status())
	})

	t.Run("completed never regresses to failed", func(t *testing.T) {
		payload := map[string]interface{}{
			"event": "failed",
			"data":  map[string]interface{}{"code": "insufficient_funds"},
		}
		prev, record, err := repo.UpdateStatus(ctx, "src_1", sourcevo.StatusFailed, payload)
		require.NoError(t, err)
		assert.Equal(t, sourcevo.StatusCompleted, prev)
		assert.Equal(t, sourcevo.StatusCompleted, record.Status())
	})

	t.Run("raw payload retained on every delivery", func(t *testing.T) {
		record, err := repo.GetBySourceID(ctx, "src_1")
		require.NoError(t, err)
		assert.Equal(t, "failed", record.WebhookData()["event"])

		nested, ok := record.WebhookData()["data"].(map[string]interface{})
		require.True(t, ok, "nested payload should survive the column round trip")
		assert.Equal(t, "insufficient_funds", nested["code"])
	})

	t.Run("unknown source", func(t *testing.T) {
		_, _, err := repo.UpdateStatus(ctx, "src_missing", sourcevo.StatusCompleted, nil)
		assert.ErrorIs(t, err, paymentsource.ErrPaymentSourceNotFound)
	})
}

func TestPaymentSourceRepository_ResolveInvoiceFallback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentSourceRepository(db)
	invoiceRepo := NewInvoiceRepository(db)
	ctx := context.Background()

	sub := createTestSubscription(t, db)

	t.Run("links the most recent unpaid invoice from today", func(t *testing.T) {
		old := createTestInvoice(t, db, sub.ID(), "INV-000040", nil)
		res := db.Model(&models.InvoiceModel{}).
			Where("id = ?", old.ID()).
			Update("created_at", biztime.NowUTC().AddDate(0, 0, -2))
		require.NoError(t, res.Error)

		today := createTestInvoice(t, db, sub.ID(), "INV-000041", nil)

		src, err := paymentsource.NewPaymentSource("src_f1", nil, 19900, "PHP", "gcash", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, src))

		linked, err := repo.ResolveInvoiceFallback(ctx, "src_f1")
		require.NoError(t, err)
		require.NotNil(t, linked.InvoiceID())
		assert.Equal(t, today.ID(), *linked.InvoiceID())
	})

	t.Run("idempotent for an already linked source", func(t *testing.T) {
		linked, err := repo.ResolveInvoiceFallback(ctx, "src_f1")
		require.NoError(t, err)
		require.NotNil(t, linked.InvoiceID())
	})

	t.Run("never double-assigns an invoice", func(t *testing.T) {
		src2, err := paymentsource.NewPaymentSource("src_f2", nil, 19900, "PHP", "gcash", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, src2))

		// The only unpaid invoice from today is already claimed by
		// src_f1, so src_f2 stays unlinked.
		unlinked, err := repo.ResolveInvoiceFallback(ctx, "src_f2")
		require.NoError(t, err)
		assert.Nil(t, unlinked.InvoiceID())
	})

	t.Run("ignores paid invoices", func(t *testing.T) {
		paidInv := createTestInvoice(t, db, sub.ID(), "INV-000042", nil)
		require.NoError(t, paidInv.MarkPaid())
		require.NoError(t, invoiceRepo.Update(ctx, paidInv))

		src3, err := paymentsource.NewPaymentSource("src_f3", nil, 19900, "PHP", "gcash", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, src3))

		unlinked, err := repo.ResolveInvoiceFallback(ctx, "src_f3")
		require.NoError(t, err)
		assert.Nil(t, unlinked.InvoiceID())
	})
}

func TestSubscriptionRepository_GetLatestByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	_, err := repo.GetLatestByUserID(ctx, 42)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	first := createTestSubscription(t, db)
	// Backdate the first so ordering is deterministic.
	res := db.Model(&models.SubscriptionModel{}).
		Where("id = ?", first.ID()).
		Update("created_at", biztime.NowUTC().Add(-time.Hour))
	require.NoError(t, res.Error)

	second := createTestSubscription(t, db)

	latest, err := repo.GetLatestByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), latest.ID())
}
