package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull fresh observations from configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var results []application.SyncResult

			fetch := func(ctx context.Context) error {
				svc, err := app.syncService(ctx)
				if err != nil {
					return err
				}

				results, err = svc.SyncAll(ctx)
				return err
			}

			if asJSON {
				if err := fetch(cmd.Context()); err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			if err := runSyncSpinner(cmd.Context(), cmd.OutOrStdout(), fetch); err != nil {
				return err
			}

			for _, res := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: matched %d, updated %d, skipped %d\n",
					res.Source, res.Matched, res.Updated, res.Skipped)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
