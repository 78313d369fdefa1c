package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
	"github.com/spf13/cobra"
)

var errNoMonitorSource = errors.New("no camera source configured (set zoneminder.base_url or HW_ZM_URL)")

// printReleaser announces stream teardown on the command output. Handles are
// process-local, so releasing them is just telling the user the slot is gone.
type printReleaser struct {
	out io.Writer
}

func (r printReleaser) Release(h *domain.StreamHandle) bool {
	if h == nil {
		return false
	}

	_, _ = fmt.Fprintf(r.out, "released stream %s (monitor %s)\n", h.ID, h.MonitorID)
	return true
}

func newStreamCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Watch camera streams through the bounded handle cache",
	}

	cmd.AddCommand(newStreamWatchCmd(app))
	cmd.AddCommand(newStreamStatusCmd(app))
	cmd.AddCommand(newStreamErrorCmd(app))

	return cmd
}

func newStreamWatchCmd(app *app) *cobra.Command {
	var cacheSize int

	cmd := &cobra.Command{
		Use:   "watch <monitor-id> [monitor-id...]",
		Short: "Open streams in order, recycling superseded handles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newStreamSession(app, cmd.OutOrStdout(), cacheSize)
			if err != nil {
				return err
			}

			if err := watchMonitors(cmd, svc, args); err != nil {
				return err
			}

			writeStreamSummary(cmd.OutOrStdout(), svc)
			return nil
		},
	}

	cmd.Flags().IntVar(&cacheSize, "cache", 0, "Superseded handles to keep warm (default: stream.cache_size)")

	return cmd
}

func newStreamStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List camera monitors and their stream URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.monitors == nil {
				return errNoMonitorSource
			}

			monitors, err := app.monitors.Monitors(cmd.Context())
			if err != nil {
				return fmt.Errorf("list monitors: %w", err)
			}

			for _, m := range monitors {
				state := "enabled"
				if !m.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					m.ID, m.Name, state, app.monitors.StreamURL(m.ID))
			}

			return nil
		},
	}
}

func newStreamErrorCmd(app *app) *cobra.Command {
	var cacheSize int

	cmd := &cobra.Command{
		Use:   "error <monitor-id> [monitor-id...]",
		Short: "Open streams, then simulate a playback error to shed cached handles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newStreamSession(app, cmd.OutOrStdout(), cacheSize)
			if err != nil {
				return err
			}

			if err := watchMonitors(cmd, svc, args); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "playback error reported")
			svc.ReportError()

			writeStreamSummary(cmd.OutOrStdout(), svc)
			return nil
		},
	}

	cmd.Flags().IntVar(&cacheSize, "cache", 0, "Superseded handles to keep warm (default: stream.cache_size)")

	return cmd
}

func newStreamSession(app *app, out io.Writer, cacheSize int) (*application.StreamService, error) {
	if app.monitors == nil {
		return nil, errNoMonitorSource
	}

	if cacheSize <= 0 {
		cacheSize = app.streamCacheSize
	}

	recycler := domain.NewRecycler(cacheSize, printReleaser{out: out})

	return application.NewStreamService(app.monitors, recycler, ports.SystemClock{}), nil
}

func watchMonitors(cmd *cobra.Command, svc *application.StreamService, monitorIDs []string) error {
	for _, id := range monitorIDs {
		handle, err := svc.Watch(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("watch monitor %q: %w", id, err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching monitor %s: %s (handle %s)\n",
			handle.MonitorID, handle.Source, handle.ID)
	}

	return nil
}

func writeStreamSummary(out io.Writer, svc *application.StreamService) {
	if current := svc.Current(); current != nil {
		_, _ = fmt.Fprintf(out, "current: monitor %s (handle %s)\n", current.MonitorID, current.ID)
	} else {
		_, _ = fmt.Fprintln(out, "current: none")
	}

	history := svc.History()
	_, _ = fmt.Fprintf(out, "cached: %d\n", len(history))
	for _, h := range history {
		_, _ = fmt.Fprintf(out, "  monitor %s (handle %s)\n", h.MonitorID, h.ID)
	}
}
