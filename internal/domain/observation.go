package domain

import "time"

type ObservationSource string

const (
	ObservationSourceManual        ObservationSource = "manual"
	ObservationSourceHomeAssistant ObservationSource = "homeassistant"
	ObservationSourceZoneMinder    ObservationSource = "zoneminder"
)

// Observation records a single sighting of an item, either reported by an
// integration sync or entered manually. Observations are append-only; the
// log keeps a bounded number per item.
type Observation struct {
	ItemID     ItemID
	ObservedAt time.Time
	Source     ObservationSource
	// State is the raw state reported by the source ("on", "open", ...),
	// empty for manual observations without one.
	State string
}
