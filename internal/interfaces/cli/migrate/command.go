package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/hakot-io/hakot/internal/infrastructure/config"
	"github.com/hakot-io/hakot/internal/infrastructure/database"
	"github.com/hakot-io/hakot/internal/infrastructure/migration"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

var configFile string

// NewCommand builds the migrate command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file")

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

	gormDB, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migration.AutoMigrate(gormDB); err != nil {
		return err
	}

	logger.Info("migrations applied")
	return nil
}
