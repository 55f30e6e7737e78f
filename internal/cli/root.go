package cli

import (
	"context"
	"io"
	"os"

	"calsync/internal/config"
	"calsync/internal/database"
	"calsync/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the calsync admin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "calsync",
		Short: "CRM calendar sync administration",
		Long:  "Admin tooling for the interaction-to-calendar sync engine: schema setup, failure-ledger inspection and reconciliation reports.",
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "configs/config.yaml"
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfig, "path to config file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewFailuresCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// setup loads config and builds the base logger shared by subcommands.
func setup(opts *RootOptions) (*config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "cli").Logger()

	return cfg, logger, closer, nil
}

func openDB(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	return database.NewDB(ctx, cfg.Database, logger)
}
