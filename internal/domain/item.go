package domain

import (
	"fmt"
	"strings"
	"time"
)

type ItemID string

type ItemKind string

const (
	ItemKindSensor ItemKind = "sensor"
	ItemKindCamera ItemKind = "camera"
	ItemKindAsset  ItemKind = "asset"
)

// MonitoredItem is a physical thing in the home whose freshness is tracked.
// LastObservedAt is nil until the first observation; the integration layer
// and manual observations advance it through MarkObserved.
type MonitoredItem struct {
	ID        ItemID
	Name      string
	Kind      ItemKind
	Location  string
	// EntityID links the item to a home-automation entity (e.g.
	// "binary_sensor.front_door"); empty when the item has no live source.
	EntityID string
	// MonitorID links a camera item to its video monitor.
	MonitorID      string
	Tags           []string
	LastObservedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i MonitoredItem) Validate() error {
	if strings.TrimSpace(string(i.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if i.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	switch i.Kind {
	case ItemKindSensor, ItemKindCamera, ItemKindAsset:
	default:
		return fmt.Errorf("unsupported kind %q", i.Kind)
	}

	return nil
}

func (i *MonitoredItem) NormalizeTags() {
	if i == nil {
		return
	}

	tags := make([]string, 0, len(i.Tags))
	seen := make(map[string]struct{}, len(i.Tags))
	for _, tag := range i.Tags {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		tags = append(tags, trimmed)
	}

	i.Tags = tags
}

// MarkObserved advances LastObservedAt to at. The timestamp is monotonic:
// an observation older than the current one is ignored and MarkObserved
// reports false.
func (i *MonitoredItem) MarkObserved(at time.Time) bool {
	if i == nil || at.IsZero() {
		return false
	}
	if i.LastObservedAt != nil && !at.After(*i.LastObservedAt) {
		return false
	}

	observed := at
	i.LastObservedAt = &observed
	return true
}
