package sweep

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	infraconfig "github.com/hakot-io/hakot/internal/infrastructure/config"
	"github.com/hakot-io/hakot/internal/infrastructure/database"
	"github.com/hakot-io/hakot/internal/infrastructure/persistence/repository"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

var configFile string

// NewCommand builds the sweep command group. Sweeps are the scheduled
// maintenance passes a cron job runs against the ledger.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run scheduled ledger maintenance",
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "overdue",
		Short: "Flag unpaid invoices past their due date",
		RunE:  runOverdue,
	})

	return cmd
}

func runOverdue(cmd *cobra.Command, args []string) error {
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

	gormDB, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log := logger.NewLogger()
	invoiceRepo := repository.NewInvoiceRepository(gormDB)
	uc := billingusecases.NewMarkOverdueInvoicesUseCase(invoiceRepo, log)

	result, err := uc.Execute(context.Background())
	if err != nil {
		return err
	}

	logger.Info("overdue sweep finished", "marked", result.MarkedCount)
	return nil
}
