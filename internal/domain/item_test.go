package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitoredItemValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    MonitoredItem
		wantErr string
	}{
		{
			name: "valid",
			item: MonitoredItem{ID: "front-door", Name: "Front door", Kind: ItemKindSensor},
		},
		{
			name:    "missing id",
			item:    MonitoredItem{Name: "Front door", Kind: ItemKindSensor},
			wantErr: "id is required",
		},
		{
			name:    "missing name",
			item:    MonitoredItem{ID: "front-door", Kind: ItemKindSensor},
			wantErr: "name is required",
		},
		{
			name:    "missing kind",
			item:    MonitoredItem{ID: "front-door", Name: "Front door"},
			wantErr: "kind is required",
		},
		{
			name:    "unsupported kind",
			item:    MonitoredItem{ID: "front-door", Name: "Front door", Kind: "gadget"},
			wantErr: "unsupported kind",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.item.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNormalizeTagsDeduplicatesAndDropsEmpty(t *testing.T) {
	t.Parallel()

	item := MonitoredItem{Tags: []string{" Garage ", "garage", "", "  ", "Tools"}}
	item.NormalizeTags()

	assert.Equal(t, []string{"garage", "tools"}, item.Tags)
}

func TestMarkObservedIsMonotonic(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	item := MonitoredItem{ID: "front-door", Name: "Front door", Kind: ItemKindSensor}

	assert.True(t, item.MarkObserved(first))
	assert.Equal(t, first, *item.LastObservedAt)

	// Same instant and older instants do not move the timestamp.
	assert.False(t, item.MarkObserved(first))
	assert.False(t, item.MarkObserved(first.Add(-time.Minute)))
	assert.Equal(t, first, *item.LastObservedAt)

	later := first.Add(time.Minute)
	assert.True(t, item.MarkObserved(later))
	assert.Equal(t, later, *item.LastObservedAt)
}

func TestMarkObservedZeroTimeIgnored(t *testing.T) {
	t.Parallel()

	item := MonitoredItem{ID: "front-door", Name: "Front door", Kind: ItemKindSensor}

	assert.False(t, item.MarkObserved(time.Time{}))
	assert.Nil(t, item.LastObservedAt)
}
