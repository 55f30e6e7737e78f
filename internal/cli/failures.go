package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewFailuresCommand creates the failures command.
func NewFailuresCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "List unresolved sync failures",
		Long: `List active failure-ledger rows ordered by next_retry_at. The
engine never replays these itself; this is the view an external
reconciliation process works from.`,
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

			failures, err := db.UnresolvedFailures(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(failures)
			}

			if len(failures) == 0 {
				fmt.Fprintln(out, "no unresolved sync failures")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INTERACTION\tACTION\tRETRIES\tNEXT RETRY\tERROR")
			for _, f := range failures {
				next := ""
				if f.NextRetryAt != nil {
					next = f.NextRetryAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", f.InteractionID, f.Action, f.RetryCount, next, f.ErrorMessage)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}
