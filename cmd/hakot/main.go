package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hakot-io/hakot/internal/interfaces/cli/migrate"
	"github.com/hakot-io/hakot/internal/interfaces/cli/server"
	"github.com/hakot-io/hakot/internal/interfaces/cli/sweep"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hakot",
		Short: "Hakot - waste collection billing backend",
		Long:  `Hakot runs the subscription billing and payment reconciliation backend for the waste collection service.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
