package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the sync support tables",
		Long: `Create the calendar_events, calendar_sync_failures and
calendar_sync_log tables plus their indexes, and add the
calendar_synced_at column to the interaction table. Idempotent.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg, &logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureSchema(ctx); err != nil {
				return err
			}

			logger.Info().Msg("schema migration completed")
			return nil
		},
	}
}
