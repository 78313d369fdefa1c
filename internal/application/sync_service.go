package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

var ErrNoSourcesConfigured = errors.New("no integration sources configured")

// SyncService pulls observation evidence from external systems and advances
// item timestamps. Sources are optional; a nil source is simply skipped.
type SyncService struct {
	repo        ports.ItemRepository
	log         ports.ObservationLog
	entities    ports.EntitySource
	monitors    ports.MonitorSource
	clock       ports.Clock
	historyKeep int
}

func NewSyncService(repo ports.ItemRepository, log ports.ObservationLog, entities ports.EntitySource, monitors ports.MonitorSource, clock ports.Clock, historyKeep int) *SyncService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if historyKeep <= 0 {
		historyKeep = DefaultHistoryKeep
	}

	return &SyncService{
		repo:        repo,
		log:         log,
		entities:    entities,
		monitors:    monitors,
		clock:       clock,
		historyKeep: historyKeep,
	}
}

// SyncAll runs every configured source and returns one result per source.
func (s *SyncService) SyncAll(ctx context.Context) ([]SyncResult, error) {
	if s.entities == nil && s.monitors == nil {
		return nil, ErrNoSourcesConfigured
	}

	results := make([]SyncResult, 0, 2)

	if s.entities != nil {
		result, err := s.SyncEntities(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if s.monitors != nil {
		result, err := s.SyncMonitors(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// SyncEntities matches items to entity states by entity id and advances each
// matched item to the source's LastUpdated. Timestamps never move backwards;
// a source report older than the item's current observation counts as
// skipped.
func (s *SyncService) SyncEntities(ctx context.Context) (SyncResult, error) {
	result := SyncResult{Source: domain.ObservationSourceHomeAssistant}
	if s.entities == nil {
		return result, nil
	}

	states, err := s.entities.States(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch entity states: %w", err)
	}

	byEntity := make(map[string]ports.EntityState, len(states))
	for _, state := range states {
		byEntity[state.EntityID] = state
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list items: %w", err)
	}

	for _, item := range items {
		if item.EntityID == "" {
			continue
		}
		state, ok := byEntity[item.EntityID]
		if !ok {
			continue
		}
		result.Matched++

		at := state.LastUpdated
		if at.IsZero() {
			at = s.clock.Now()
		}

		obs := domain.Observation{
			ItemID:     item.ID,
			ObservedAt: at,
			Source:     domain.ObservationSourceHomeAssistant,
			State:      state.State,
		}
		updated, err := s.apply(ctx, item, obs)
		if err != nil {
			return SyncResult{}, err
		}
		if updated {
			result.Updated++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// SyncMonitors marks camera items observed when their monitor is enabled on
// the camera system. Disabled monitors count as skipped.
func (s *SyncService) SyncMonitors(ctx context.Context) (SyncResult, error) {
	result := SyncResult{Source: domain.ObservationSourceZoneMinder}
	if s.monitors == nil {
		return result, nil
	}

	monitors, err := s.monitors.Monitors(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch monitors: %w", err)
	}

	byID := make(map[string]ports.Monitor, len(monitors))
	for _, monitor := range monitors {
		byID[monitor.ID] = monitor
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list items: %w", err)
	}

	for _, item := range items {
		if item.MonitorID == "" {
			continue
		}
		monitor, ok := byID[item.MonitorID]
		if !ok {
			continue
		}
		result.Matched++

		if !monitor.Enabled {
			result.Skipped++
			continue
		}

		obs := domain.Observation{
			ItemID:     item.ID,
			ObservedAt: s.clock.Now(),
			Source:     domain.ObservationSourceZoneMinder,
			State:      "monitoring",
		}
		updated, err := s.apply(ctx, item, obs)
		if err != nil {
			return SyncResult{}, err
		}
		if updated {
			result.Updated++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

func (s *SyncService) apply(ctx context.Context, item domain.MonitoredItem, obs domain.Observation) (bool, error) {
	if !item.MarkObserved(obs.ObservedAt) {
		return false, nil
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, item); err != nil {
		return false, fmt.Errorf("save item %s: %w", item.ID, err)
	}
	if err := s.log.Append(ctx, obs, s.historyKeep); err != nil {
		return false, fmt.Errorf("append observation for %s: %w", item.ID, err)
	}

	return true, nil
}
