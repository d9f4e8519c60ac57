package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	subscriptionusecases "github.com/hakot-io/hakot/internal/application/subscription/usecases"
	"github.com/hakot-io/hakot/internal/domain/invoice"
	invoicevo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/payment"
	"github.com/hakot-io/hakot/internal/domain/paymentsource"
	sourcevo "github.com/hakot-io/hakot/internal/domain/paymentsource/valueobjects"
	"github.com/hakot-io/hakot/internal/domain/subscription"
	subscriptionvo "github.com/hakot-io/hakot/internal/domain/subscription/valueobjects"
	"github.com/hakot-io/hakot/internal/infrastructure/gateway"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/models"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/repository"
	"github.com/hakot-io/hakot/internal/shared/config"
	"github.com/hakot-io/hakot/internal/shared/db"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

type webhookEnv struct {
	db               *gorm.DB
	subscriptionRepo subscription.SubscriptionRepository
	invoiceRepo      invoice.InvoiceRepository
	paymentRepo      payment.PaymentRepository
	sourceRepo       paymentsource.PaymentSourceRepository
	createInvoice    *billingusecases.CreateInvoiceUseCase
	handleWebhook    *HandleWebhookEventUseCase
	confirmCash      *ConfirmCashPaymentUseCase
	listUnresolved   *ListUnresolvedSourcesUseCase
}

func newWebhookEnv(t *testing.T) *webhookEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.SubscriptionModel{},
		&models.InvoiceModel{},
		&models.InvoiceSequenceModel{},
		&models.PaymentModel{},
		&models.PaymentSourceModel{},
	))

	log := logger.NewLogger()
	txManager := db.NewTransactionManager(gormDB)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB)
	invoiceRepo := repository.NewInvoiceRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	sourceRepo := repository.NewPaymentSourceRepository(gormDB)

	billing := &config.BillingConfig{
		MonthlyRateCentavos:    19900,
		Currency:               "PHP",
		DueInDays:              7,
		ArchiveCutoffDays:      30,
		ShortTermThresholdDays: 30,
		LongTermThresholdDays:  90,
		Timezone:               "Asia/Manila",
	}

	activate := subscriptionusecases.NewActivateSubscriptionUseCase(
		subscriptionRepo, invoiceRepo, paymentRepo, txManager, log,
	)

	return &webhookEnv{
		db:               gormDB,
		subscriptionRepo: subscriptionRepo,
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		sourceRepo:       sourceRepo,
		createInvoice:    billingusecases.NewCreateInvoiceUseCase(invoiceRepo, subscriptionRepo, txManager, billing, log),
		handleWebhook:    NewHandleWebhookEventUseCase(sourceRepo, invoiceRepo, activate, txManager, log),
		confirmCash:      NewConfirmCashPaymentUseCase(activate, log),
		listUnresolved:   NewListUnresolvedSourcesUseCase(sourceRepo, log),
	}
}

func (e *webhookEnv) newSubscriptionWithInvoice(t *testing.T) (*subscription.Subscription, *invoice.Invoice) {
	t.Helper()
	ctx := context.Background()

	sub, err := subscription.NewSubscription(1, 1)
	require.NoError(t, err)
	require.NoError(t, e.subscriptionRepo.Create(ctx, sub))

	result, err := e.createInvoice.Execute(ctx, billingusecases.CreateInvoiceCommand{
		SubscriptionID: sub.ID(),
		Kind:           invoice.KindRegistration,
	})
	require.NoError(t, err)

	inv, err := e.invoiceRepo.GetByID(ctx, result.Invoice.ID)
	require.NoError(t, err)
	return sub, inv
}

func (e *webhookEnv) newSource(t *testing.T, sourceID string, invoiceID *uint) *paymentsource.PaymentSource {
	t.Helper()

	src, err := paymentsource.NewPaymentSource(sourceID, invoiceID, 19900, "PHP", "gcash", "https://checkout.test/s")
	require.NoError(t, err)
	require.NoError(t, e.sourceRepo.Create(context.Background(), src))
	return src
}

func TestHandleWebhookEvent_FirstChargeableActivates(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	sub, inv := env.newSubscriptionWithInvoice(t)
	invID := inv.ID()
	env.newSource(t, "src_first", &invID)

	result, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{
		SourceID:   "src_first",
		Status:     "chargeable",
		RawPayload: map[string]interface{}{"id": "src_first", "type": "source.chargeable"},
	})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.False(t, result.Redelivery)
	assert.False(t, result.Unresolved)

	activated, err := env.subscriptionRepo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, subscriptionvo.StatusActive, activated.Status())

	settled, err := env.invoiceRepo.GetByID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusPaid, settled.Status())

	payments, err := env.paymentRepo.ListByInvoiceID(ctx, inv.ID())
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].ReferenceNumber())
	assert.Equal(t, "src_first", *payments[0].ReferenceNumber())
}

func TestHandleWebhookEvent_RedeliveryIsNoop(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	_, inv := env.newSubscriptionWithInvoice(t)
	invID := inv.ID()
	env.newSource(t, "src_dup", &invID)

	cmd := HandleWebhookEventCommand{SourceID: "src_dup", Status: "chargeable"}

	first, err := env.handleWebhook.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := env.handleWebhook.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.True(t, second.Redelivery)

	payments, err := env.paymentRepo.ListByInvoiceID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestHandleWebhookEvent_FailedHasNoEffect(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	sub, inv := env.newSubscriptionWithInvoice(t)
	invID := inv.ID()
	env.newSource(t, "src_fail", &invID)

	result, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{
		SourceID: "src_fail",
		Status:   "failed",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)

	src, err := env.sourceRepo.GetBySourceID(ctx, "src_fail")
	require.NoError(t, err)
	assert.Equal(t, sourcevo.StatusFailed, src.Status())

	untouched, err := env.subscriptionRepo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, subscriptionvo.StatusPendingPayment, untouched.Status())

	open, err := env.invoiceRepo.GetByID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, invoicevo.StatusUnpaid, open.Status())
}

func TestHandleWebhookEvent_FailedAfterCompletedKeepsCompleted(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	_, inv := env.newSubscriptionWithInvoice(t)
	invID := inv.ID()
	env.newSource(t, "src_late_fail", &invID)

	_, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{SourceID: "src_late_fail", Status: "paid"})
	require.NoError(t, err)

	// An out-of-order failed delivery after completion changes nothing.
	result, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{SourceID: "src_late_fail", Status: "failed"})
	require.NoError(t, err)
	assert.False(t, result.Applied)

	src, err := env.sourceRepo.GetBySourceID(ctx, "src_late_fail")
	require.NoError(t, err)
	assert.Equal(t, sourcevo.StatusCompleted, src.Status())
}

func TestHandleWebhookEvent_UnknownStatusRejected(t *testing.T) {
	env := newWebhookEnv(t)

	_, err := env.handleWebhook.Execute(context.Background(), HandleWebhookEventCommand{
		SourceID: "src_weird",
		Status:   "refunded",
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
}

func TestHandleWebhookEvent_UnknownSource(t *testing.T) {
	env := newWebhookEnv(t)

	_, err := env.handleWebhook.Execute(context.Background(), HandleWebhookEventCommand{
		SourceID: "src_nobody",
		Status:   "chargeable",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestHandleWebhookEvent_FallbackLinksSameDayInvoice(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	sub, inv := env.newSubscriptionWithInvoice(t)
	env.newSource(t, "src_unlinked", nil)

	result, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{
		SourceID: "src_unlinked",
		Status:   "chargeable",
	})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.False(t, result.Unresolved)

	src, err := env.sourceRepo.GetBySourceID(ctx, "src_unlinked")
	require.NoError(t, err)
	require.NotNil(t, src.InvoiceID())
	assert.Equal(t, inv.ID(), *src.InvoiceID())

	activated, err := env.subscriptionRepo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, subscriptionvo.StatusActive, activated.Status())
}

func TestHandleWebhookEvent_UnresolvedRetained(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	// No open invoice anywhere: the completed source has nothing to
	// settle and lands in the manual reconciliation queue.
	env.newSource(t, "src_orphan", nil)

	payload := map[string]interface{}{"id": "src_orphan", "amount": float64(19900)}
	result, err := env.handleWebhook.Execute(ctx, HandleWebhookEventCommand{
		SourceID:   "src_orphan",
		Status:     "chargeable",
		RawPayload: payload,
	})
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.True(t, result.Unresolved)

	src, err := env.sourceRepo.GetBySourceID(ctx, "src_orphan")
	require.NoError(t, err)
	assert.Equal(t, sourcevo.StatusCompleted, src.Status())
	assert.Nil(t, src.InvoiceID())
	assert.Equal(t, "src_orphan", src.WebhookData()["id"])

	queue, err := env.listUnresolved.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, queue.Sources, 1)
	assert.Equal(t, "src_orphan", queue.Sources[0].SourceID)
}

func TestConfirmCashPayment(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	sub, inv := env.newSubscriptionWithInvoice(t)

	result, err := env.confirmCash.Execute(ctx, ConfirmCashPaymentCommand{
		SubscriptionID: sub.ID(),
		CollectorID:    42,
		AmountCentavos: 19900,
		Notes:          "collected at route 3",
	})
	require.NoError(t, err)

	assert.Equal(t, subscriptionvo.StatusActive.String(), result.Subscription.Status)
	assert.Equal(t, inv.ID(), result.SettledInvoice)
	assert.True(t, result.PaymentRecorded)

	total, err := env.paymentRepo.SumByInvoiceID(ctx, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(19900), total)
}

func TestConfirmCashPayment_RejectsNonPositiveAmount(t *testing.T) {
	env := newWebhookEnv(t)

	_, err := env.confirmCash.Execute(context.Background(), ConfirmCashPaymentCommand{
		SubscriptionID: 1,
		AmountCentavos: 0,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

type stubGateway struct {
	sourceID    string
	checkoutURL string
	err         error
}

func (s *stubGateway) CreateSource(ctx context.Context, amountCentavos int64, currency, method, redirectSuccess, redirectFailed string) (*gateway.SourceResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &gateway.SourceResult{
		SourceID:    s.sourceID,
		CheckoutURL: s.checkoutURL,
		Status:      "pending",
	}, nil
}

func TestCreatePaymentSource(t *testing.T) {
	env := newWebhookEnv(t)
	ctx := context.Background()

	_, inv := env.newSubscriptionWithInvoice(t)

	stub := &stubGateway{sourceID: "src_new", checkoutURL: "https://checkout.test/src_new"}
	createSource := NewCreatePaymentSourceUseCase(env.sourceRepo, env.invoiceRepo, stub, logger.NewLogger())

	result, err := createSource.Execute(ctx, CreatePaymentSourceCommand{
		InvoiceID:       inv.ID(),
		Method:          "gcash",
		RedirectSuccess: "https://app.test/ok",
		RedirectFailed:  "https://app.test/fail",
	})
	require.NoError(t, err)

	assert.Equal(t, "src_new", result.Source.SourceID)
	require.NotNil(t, result.Source.InvoiceID)
	assert.Equal(t, inv.ID(), *result.Source.InvoiceID)
	assert.Equal(t, int64(19900), result.Source.Amount)
	assert.Equal(t, "PHP", result.Source.Currency)
	require.NotNil(t, result.Source.CheckoutURL)
	assert.Equal(t, "https://checkout.test/src_new", *result.Source.CheckoutURL)

	stored, err := env.sourceRepo.GetBySourceID(ctx, "src_new")
	require.NoError(t, err)
	assert.Equal(t, sourcevo.StatusPending, stored.Status())
}

func TestCreatePaymentSource_UnknownInvoice(t *testing.T) {
	env := newWebhookEnv(t)

	createSource := NewCreatePaymentSourceUseCase(env.sourceRepo, env.invoiceRepo, &stubGateway{sourceID: "src_x"}, logger.NewLogger())

	_, err := createSource.Execute(context.Background(), CreatePaymentSourceCommand{InvoiceID: 999})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
