package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

func TestSyncEntitiesAdvancesMatchedItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		domain.MonitoredItem{ID: "front-door", Name: "Front door", Kind: domain.ItemKindSensor, EntityID: "binary_sensor.front_door"},
		domain.MonitoredItem{ID: "attic-box", Name: "Attic box", Kind: domain.ItemKindAsset},
		domain.MonitoredItem{ID: "hall-motion", Name: "Hall motion", Kind: domain.ItemKindSensor, EntityID: "binary_sensor.hall", LastObservedAt: ts(now)},
	)
	log := &memLog{}
	entities := stubEntitySource{states: []ports.EntityState{
		{EntityID: "binary_sensor.front_door", State: "on", LastUpdated: now.Add(-time.Minute)},
		{EntityID: "binary_sensor.hall", State: "off", LastUpdated: now.Add(-time.Hour)}, // older than item
		{EntityID: "light.kitchen", State: "on", LastUpdated: now},                       // no matching item
	}}

	svc := NewSyncService(repo, log, entities, nil, fixedClock{now}, 0)

	result, err := svc.SyncEntities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ObservationSourceHomeAssistant, result.Source)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)

	door, err := repo.GetByID(context.Background(), "front-door")
	require.NoError(t, err)
	require.NotNil(t, door.LastObservedAt)
	assert.Equal(t, now.Add(-time.Minute), *door.LastObservedAt)

	hall, err := repo.GetByID(context.Background(), "hall-motion")
	require.NoError(t, err)
	assert.Equal(t, now, *hall.LastObservedAt, "observation must never move backwards")

	entries := log.byItem("front-door")
	require.Len(t, entries, 1)
	assert.Equal(t, "on", entries[0].State)
	assert.Empty(t, log.byItem("hall-motion"))
}

func TestSyncEntitiesZeroLastUpdatedUsesClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(domain.MonitoredItem{ID: "front-door", Name: "Front door", Kind: domain.ItemKindSensor, EntityID: "binary_sensor.front_door"})
	svc := NewSyncService(repo, &memLog{}, stubEntitySource{states: []ports.EntityState{
		{EntityID: "binary_sensor.front_door", State: "on"},
	}}, nil, fixedClock{now}, 0)

	result, err := svc.SyncEntities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	door, err := repo.GetByID(context.Background(), "front-door")
	require.NoError(t, err)
	assert.Equal(t, now, *door.LastObservedAt)
}

func TestSyncEntitiesSourceError(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(newMemRepo(), &memLog{}, stubEntitySource{err: errors.New("boom")}, nil, nil, 0)

	_, err := svc.SyncEntities(context.Background())
	assert.ErrorContains(t, err, "fetch entity states")
}

func TestSyncMonitorsMarksEnabledCameras(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		domain.MonitoredItem{ID: "garage-cam", Name: "Garage cam", Kind: domain.ItemKindCamera, MonitorID: "1"},
		domain.MonitoredItem{ID: "porch-cam", Name: "Porch cam", Kind: domain.ItemKindCamera, MonitorID: "2"},
		domain.MonitoredItem{ID: "attic-cam", Name: "Attic cam", Kind: domain.ItemKindCamera, MonitorID: "9"},
	)
	log := &memLog{}
	monitors := stubMonitorSource{monitors: []ports.Monitor{
		{ID: "1", Name: "Garage", Enabled: true},
		{ID: "2", Name: "Porch", Enabled: false},
	}}

	svc := NewSyncService(repo, log, nil, monitors, fixedClock{now}, 0)

	result, err := svc.SyncMonitors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ObservationSourceZoneMinder, result.Source)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)

	garage, err := repo.GetByID(context.Background(), "garage-cam")
	require.NoError(t, err)
	assert.Equal(t, now, *garage.LastObservedAt)

	porch, err := repo.GetByID(context.Background(), "porch-cam")
	require.NoError(t, err)
	assert.Nil(t, porch.LastObservedAt)

	entries := log.byItem("garage-cam")
	require.Len(t, entries, 1)
	assert.Equal(t, "monitoring", entries[0].State)
}

func TestSyncAllRunsConfiguredSources(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		domain.MonitoredItem{ID: "front-door", Name: "Front door", Kind: domain.ItemKindSensor, EntityID: "binary_sensor.front_door"},
		domain.MonitoredItem{ID: "garage-cam", Name: "Garage cam", Kind: domain.ItemKindCamera, MonitorID: "1"},
	)
	svc := NewSyncService(repo, &memLog{},
		stubEntitySource{states: []ports.EntityState{{EntityID: "binary_sensor.front_door", State: "on", LastUpdated: now}}},
		stubMonitorSource{monitors: []ports.Monitor{{ID: "1", Enabled: true}}},
		fixedClock{now}, 0)

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Updated)
	assert.Equal(t, 1, results[1].Updated)
}

func TestSyncAllWithoutSources(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(newMemRepo(), &memLog{}, nil, nil, nil, 0)

	_, err := svc.SyncAll(context.Background())
	assert.ErrorIs(t, err, ErrNoSourcesConfigured)
}
