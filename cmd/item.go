package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage monitored items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemRemoveCmd(app),
		newItemObserveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *app) *cobra.Command {
	var (
		name      string
		kind      string
		location  string
		entityID  string
		monitorID string
		tags      []string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a monitored item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.statusService(cmd.Context())
			if err != nil {
				return err
			}

			item, err := svc.AddItem(cmd.Context(), application.AddItemCommand{
				ID:        domain.ItemID(args[0]),
				Name:      name,
				Kind:      domain.ItemKind(kind),
				Location:  location,
				EntityID:  entityID,
				MonitorID: monitorID,
				Tags:      tags,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", item.ID, item.Kind)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable item name")
	cmd.Flags().StringVar(&kind, "kind", string(domain.ItemKindSensor), "Item kind: sensor, camera, or asset")
	cmd.Flags().StringVar(&location, "location", "", "Where the item lives")
	cmd.Flags().StringVar(&entityID, "entity", "", "Home-automation entity id to sync from")
	cmd.Flags().StringVar(&monitorID, "monitor", "", "Camera monitor id to sync from")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newItemListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List monitored items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.statusService(cmd.Context())
			if err != nil {
				return err
			}

			statuses, err := svc.GetStatusAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, status := range statuses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status.Item.ID, status.Item.Name, status.Status.Token())
			}

			return nil
		},
	}
}

func newItemRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a monitored item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.statusService(cmd.Context())
			if err != nil {
				return err
			}

			if err := svc.RemoveItem(cmd.Context(), domain.ItemID(args[0])); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return err
		},
	}
}

func newItemObserveCmd(app *app) *cobra.Command {
	var (
		at    string
		state string
	)

	cmd := &cobra.Command{
		Use:   "observe <id>",
		Short: "Record a manual observation of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var observedAt time.Time
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				observedAt = parsed
			}

			svc, err := app.statusService(cmd.Context())
			if err != nil {
				return err
			}

			item, err := svc.RecordObservation(cmd.Context(), application.RecordObservationCommand{
				ID:    domain.ItemID(args[0]),
				At:    observedAt,
				State: state,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "observed %s at %s\n", item.ID, item.LastObservedAt.Format(time.RFC3339))
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Observation time (RFC 3339, default: now)")
	cmd.Flags().StringVar(&state, "state", "", "Observed state, e.g. \"open\"")

	return cmd
}
