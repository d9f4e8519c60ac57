package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	paymentusecases "github.com/hakot-io/hakot/internal/application/payment/usecases"
	subscriptionusecases "github.com/hakot-io/hakot/internal/application/subscription/usecases"
	"github.com/hakot-io/hakot/internal/infrastructure/auth"
	infraconfig "github.com/hakot-io/hakot/internal/infrastructure/config"
	"github.com/hakot-io/hakot/internal/infrastructure/database"
	"github.com/hakot-io/hakot/internal/infrastructure/gateway"
	"github.com/hakot-io/hakot/internal/infrastructure/migration"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/repository"
	"github.com/hakot-io/hakot/internal/infrastructure/ratelimit"
	"github.com/hakot-io/hakot/internal/interfaces/http/handlers"
	"github.com/hakot-io/hakot/internal/interfaces/http/middleware"
	"github.com/hakot-io/hakot/internal/interfaces/http/routes"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/db"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

var (
	configFile  string
	autoMigrate bool
)

// NewCommand builds the server command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := infraconfig.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Billing.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	gormDB, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if autoMigrate {
		if err := migration.AutoMigrate(gormDB); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	log := logger.NewLogger()
	txManager := db.NewTransactionManager(gormDB)

	subscriptionRepo := repository.NewSubscriptionRepository(gormDB)
	invoiceRepo := repository.NewInvoiceRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	sourceRepo := repository.NewPaymentSourceRepository(gormDB)

	gatewayClient := gateway.NewClient(&cfg.Gateway)

	createInvoiceUC := billingusecases.NewCreateInvoiceUseCase(invoiceRepo, subscriptionRepo, txManager, &cfg.Billing, log)
	archiveStaleUC := billingusecases.NewArchiveStaleInvoicesUseCase(invoiceRepo, subscriptionRepo, txManager, log)
	listInvoicesUC := billingusecases.NewListInvoicesUseCase(invoiceRepo, log)

	activateUC := subscriptionusecases.NewActivateSubscriptionUseCase(subscriptionRepo, invoiceRepo, paymentRepo, txManager, log)
	createSubUC := subscriptionusecases.NewCreateSubscriptionUseCase(subscriptionRepo, createInvoiceUC, txManager, log)
	getSubUC := subscriptionusecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	listSubsUC := subscriptionusecases.NewListUserSubscriptionsUseCase(subscriptionRepo, log)
	cancelUC := subscriptionusecases.NewCancelSubscriptionUseCase(subscriptionRepo, txManager, log)
	suspendUC := subscriptionusecases.NewSuspendSubscriptionUseCase(subscriptionRepo, txManager, log)
	renewUC := subscriptionusecases.NewRenewSubscriptionUseCase(subscriptionRepo, createInvoiceUC, txManager, log)
	reactivateUC := subscriptionusecases.NewReactivateSubscriptionUseCase(subscriptionRepo, activateUC, archiveStaleUC, createInvoiceUC, txManager, &cfg.Billing, log)

	createSourceUC := paymentusecases.NewCreatePaymentSourceUseCase(sourceRepo, invoiceRepo, gatewayClient, log)
	confirmCashUC := paymentusecases.NewConfirmCashPaymentUseCase(activateUC, log)
	handleWebhookUC := paymentusecases.NewHandleWebhookEventUseCase(sourceRepo, invoiceRepo, activateUC, txManager, log)
	listUnresolvedUC := paymentusecases.NewListUnresolvedSourcesUseCase(sourceRepo, log)

	var webhookLimiter ratelimit.Limiter = ratelimit.NewNoopLimiter()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		webhookLimiter = ratelimit.NewRedisLimiter(redisClient, 120, time.Minute)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		createSubUC, getSubUC, listSubsUC, cancelUC, suspendUC, renewUC, reactivateUC, listInvoicesUC, log,
	)
	paymentHandler := handlers.NewPaymentHandler(
		createSourceUC, confirmCashUC, handleWebhookUC, listUnresolvedUC, log,
	)

	router := gin.New()
	routes.Register(router, subscriptionHandler, paymentHandler, authMiddleware, webhookLimiter, log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
