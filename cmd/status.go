package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	statusadapter "github.com/bnema/homewatch-cli/internal/adapters/render/status"
	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var (
		itemID      string
		asJSON      bool
		withHistory int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the freshness of monitored items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.statusService(cmd.Context())
			if err != nil {
				return err
			}

			statuses, err := loadStatuses(cmd, svc, itemID)
			if err != nil {
				return err
			}

			if err := writeStatusesOutput(cmd, app, statuses, asJSON); err != nil {
				return err
			}

			if withHistory > 0 && itemID != "" {
				return writeHistoryOutput(cmd, svc, domain.ItemID(itemID), withHistory)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Item ID (default: all items)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().IntVar(&withHistory, "history", 0, "Also print the N most recent observations (requires --item)")

	return cmd
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []application.ItemStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.statusRenderer(statuses, statusadapter.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func writeHistoryOutput(cmd *cobra.Command, svc *application.StatusService, id domain.ItemID, limit int) error {
	observations, err := svc.History(cmd.Context(), id, limit)
	if err != nil {
		return err
	}

	for _, obs := range observations {
		line := fmt.Sprintf("%s\t%s", obs.ObservedAt.Format(time.RFC3339), obs.Source)
		if obs.State != "" {
			line += "\t" + obs.State
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	return nil
}

func loadStatuses(cmd *cobra.Command, svc *application.StatusService, itemID string) ([]application.ItemStatus, error) {
	if itemID == "" {
		return svc.GetStatusAll(cmd.Context())
	}

	status, err := svc.GetStatus(cmd.Context(), domain.ItemID(itemID))
	if err != nil {
		return nil, err
	}

	return []application.ItemStatus{status}, nil
}
