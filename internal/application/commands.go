package application

import (
	"time"

	"github.com/bnema/homewatch-cli/internal/domain"
)

type AddItemCommand struct {
	ID        domain.ItemID
	Name      string
	Kind      domain.ItemKind
	Location  string
	EntityID  string
	MonitorID string
	Tags      []string
}

type RecordObservationCommand struct {
	ID domain.ItemID
	// At defaults to the service clock when zero.
	At    time.Time
	State string
}
