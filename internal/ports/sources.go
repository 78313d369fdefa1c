package ports

import (
	"context"
	"time"
)

// EntityState is one entity snapshot reported by a home-automation source.
type EntityState struct {
	EntityID    string
	State       string
	LastUpdated time.Time
}

// EntitySource exposes the current states of all entities known to an
// external home-automation system.
type EntitySource interface {
	States(ctx context.Context) ([]EntityState, error)
}

// Monitor is a video monitor known to an external camera system.
type Monitor struct {
	ID      string
	Name    string
	Enabled bool
}

// MonitorSource lists camera monitors and resolves their live stream URLs.
type MonitorSource interface {
	Monitors(ctx context.Context) ([]Monitor, error)
	StreamURL(monitorID string) string
}
