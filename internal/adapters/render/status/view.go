package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(statuses []application.ItemStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Home Status"),
		s.header.Render(fmt.Sprintf("items: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No monitored items."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderItem(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderItem(status application.ItemStatus, opts RenderOptions, s styles) string {
	token := status.Status.Token()
	badge := s.badge(token).Render(fmt.Sprintf("[%s]", strings.ToUpper(token)))

	title := fmt.Sprintf("%s %s", badge, s.name.Render(itemTitle(status)))

	parts := []string{
		title,
		s.detail.Render(fmt.Sprintf("  %s · %s", status.Item.Kind, lastSeen(status, opts.Now))),
	}

	if line := sourceLine(status); line != "" {
		parts = append(parts, s.meta.Render("  "+line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func itemTitle(status application.ItemStatus) string {
	if status.Item.Location == "" {
		return fmt.Sprintf("%s (%s)", status.Item.Name, status.Item.ID)
	}

	return fmt.Sprintf("%s (%s) · %s", status.Item.Name, status.Item.ID, status.Item.Location)
}

func lastSeen(status application.ItemStatus, now time.Time) string {
	if status.Item.LastObservedAt == nil {
		return "never observed"
	}

	return "seen " + relativeAge(now.Sub(*status.Item.LastObservedAt))
}

func sourceLine(status application.ItemStatus) string {
	sources := make([]string, 0, 2)
	if status.Item.EntityID != "" {
		sources = append(sources, "entity "+status.Item.EntityID)
	}
	if status.Item.MonitorID != "" {
		sources = append(sources, "monitor "+status.Item.MonitorID)
	}

	return strings.Join(sources, " · ")
}

func relativeAge(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
