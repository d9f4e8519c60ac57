package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hakot-io/hakot/internal/domain/invoice"
	invoicevo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/payment"
	paymentvo "github.com/hakot-io/hakot/internal/domain/payment/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/repository"
	"github.com/hakot-io/hakot/internal/shared/config"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

type billingEnv struct {
	invoiceRepo   invoice.InvoiceRepository
	paymentRepo   payment.PaymentRepository
	createInvoice *CreateInvoiceUseCase
	recompute     *RecomputeInvoiceStatusUseCase
	subRepo       subscription.SubscriptionRepository
}

func newBillingEnv(t *testing.T) *billingEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.SubscriptionModel{},
		&models.InvoiceModel{},
		&models.InvoiceSequenceModel{},
		&models.PaymentModel{},
	))

	log := logger.NewLogger()
	txManager := db.NewTransactionManager(gormDB)
	subRepo := repository.NewSubscriptionRepository(gormDB)
	invoiceRepo := repository.NewInvoiceRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)

	billing := &config.BillingConfig{
		MonthlyRateCentavos: 19900,
		Currency:            "PHP",
		DueInDays:           7,
		Timezone:            "Asia/Manila",
	}

	return &billingEnv{
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		createInvoice: NewCreateInvoiceUseCase(invoiceRepo, subRepo, txManager, billing, log),
		recompute:     NewRecomputeInvoiceStatusUseCase(invoiceRepo, paymentRepo, txManager, log),
		subRepo:       subRepo,
	}
}

func (e *billingEnv) newInvoice(t *testing.T) uint {
	t.Helper()
	ctx := context.Background()

	sub, err := subscription.NewSubscription(1, 1)
	require.NoError(t, err)
	require.NoError(t, e.subRepo.Create(ctx, sub))

	result, err := e.createInvoice.Execute(ctx, CreateInvoiceCommand{
		SubscriptionID: sub.ID(),
		Kind:           invoice.KindRegistration,
	})
	require.NoError(t, err)
	return result.Invoice.ID
}

func (e *billingEnv) recordPayment(t *testing.T, invoiceID uint, centavos int64, reference string) {
	t.Helper()

	p, err := payment.NewPayment(invoiceID, sharedvo.NewMoney(centavos, "PHP"), paymentvo.MethodCash, reference)
	require.NoError(t, err)
	require.NoError(t, e.paymentRepo.Create(context.Background(), p))
}

func TestRecomputeInvoiceStatus_PartialThenFull(t *testing.T) {
	env := newBillingEnv(t)
	ctx := context.Background()

	invoiceID := env.newInvoice(t)

	env.recordPayment(t, invoiceID, 10000, "OR-2001")
	result, err := env.recompute.Execute(ctx, RecomputeInvoiceStatusCommand{InvoiceID: invoiceID})
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPartiallyPaid.String(), result.Invoice.Status)
	assert.Equal(t, int64(10000), result.PaidTotalCentavos)

	persisted, err := env.invoiceRepo.GetByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPartiallyPaid, persisted.Status())

	env.recordPayment(t, invoiceID, 9900, "OR-2002")
	result, err = env.recompute.Execute(ctx, RecomputeInvoiceStatusCommand{InvoiceID: invoiceID})
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPaid.String(), result.Invoice.Status)
	assert.Equal(t, int64(19900), result.PaidTotalCentavos)

	persisted, err = env.invoiceRepo.GetByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPaid, persisted.Status())
}

func TestRecomputeInvoiceStatus_NoPaymentsLeavesUnpaid(t *testing.T) {
	env := newBillingEnv(t)
	ctx := context.Background()

	invoiceID := env.newInvoice(t)

	result, err := env.recompute.Execute(ctx, RecomputeInvoiceStatusCommand{InvoiceID: invoiceID})
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusUnpaid.String(), result.Invoice.Status)
	assert.Zero(t, result.PaidTotalCentavos)
}

func TestRecomputeInvoiceStatus_OverpaymentIsPaid(t *testing.T) {
	env := newBillingEnv(t)
	ctx := context.Background()

	invoiceID := env.newInvoice(t)
	env.recordPayment(t, invoiceID, 25000, "OR-2003")

	result, err := env.recompute.Execute(ctx, RecomputeInvoiceStatusCommand{InvoiceID: invoiceID})
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPaid.String(), result.Invoice.Status)
}

func TestRecomputeInvoiceStatus_UnknownInvoice(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.recompute.Execute(context.Background(), RecomputeInvoiceStatusCommand{InvoiceID: 9999})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
