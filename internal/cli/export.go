package cli

import (
	"fmt"

	"calsync/internal/export"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var auditLimit int

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Write an XLSX reconciliation report",
		Long:         "Export unresolved sync failures and the recent audit trail to an XLSX file under the configured exports path.",
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

			reporter := export.NewReporter(db, cfg.Exports.Path)
			path, err := reporter.Write(ctx, auditLimit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&auditLimit, "audit-limit", 200, "number of audit entries to include")

	return cmd
}
