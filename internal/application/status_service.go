package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

// DefaultHistoryKeep bounds how many observations are retained per item.
const DefaultHistoryKeep = 200

type StatusService struct {
	repo        ports.ItemRepository
	log         ports.ObservationLog
	clock       ports.Clock
	thresholds  domain.Thresholds
	historyKeep int
}

func NewStatusService(repo ports.ItemRepository, log ports.ObservationLog, clock ports.Clock, thresholds domain.Thresholds, historyKeep int) (*StatusService, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if thresholds == (domain.Thresholds{}) {
		thresholds = domain.DefaultThresholds()
	}
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	if historyKeep <= 0 {
		historyKeep = DefaultHistoryKeep
	}

	return &StatusService{
		repo:        repo,
		log:         log,
		clock:       clock,
		thresholds:  thresholds,
		historyKeep: historyKeep,
	}, nil
}

func (s *StatusService) GetStatus(ctx context.Context, id domain.ItemID) (ItemStatus, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ItemStatus{}, err
	}

	return s.classify(item), nil
}

func (s *StatusService) GetStatusAll(ctx context.Context) ([]ItemStatus, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	statuses := make([]ItemStatus, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, s.classify(item))
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Status != statuses[j].Status {
			return statuses[i].Status < statuses[j].Status
		}
		return statuses[i].Item.Name < statuses[j].Item.Name
	})

	return statuses, nil
}

func (s *StatusService) AddItem(ctx context.Context, cmd AddItemCommand) (domain.MonitoredItem, error) {
	now := s.clock.Now()
	item := domain.MonitoredItem{
		ID:        cmd.ID,
		Name:      cmd.Name,
		Kind:      cmd.Kind,
		Location:  cmd.Location,
		EntityID:  cmd.EntityID,
		MonitorID: cmd.MonitorID,
		Tags:      cmd.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.NormalizeTags()

	if err := item.Validate(); err != nil {
		return domain.MonitoredItem{}, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return domain.MonitoredItem{}, fmt.Errorf("save item: %w", err)
	}

	return item, nil
}

func (s *StatusService) RemoveItem(ctx context.Context, id domain.ItemID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}

// RecordObservation marks an item as seen, persists the advanced timestamp,
// and appends the sighting to the observation log. An observation that does
// not advance the item's timestamp is ignored.
func (s *StatusService) RecordObservation(ctx context.Context, cmd RecordObservationCommand) (domain.MonitoredItem, error) {
	item, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return domain.MonitoredItem{}, err
	}

	at := cmd.At
	if at.IsZero() {
		at = s.clock.Now()
	}

	if !item.MarkObserved(at) {
		return item, nil
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, item); err != nil {
		return domain.MonitoredItem{}, fmt.Errorf("save item: %w", err)
	}

	obs := domain.Observation{
		ItemID:     item.ID,
		ObservedAt: at,
		Source:     domain.ObservationSourceManual,
		State:      cmd.State,
	}
	if err := s.log.Append(ctx, obs, s.historyKeep); err != nil {
		return domain.MonitoredItem{}, fmt.Errorf("append observation: %w", err)
	}

	return item, nil
}

func (s *StatusService) History(ctx context.Context, id domain.ItemID, limit int) ([]domain.Observation, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	observations, err := s.log.RecentByItem(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	return observations, nil
}

func (s *StatusService) classify(item domain.MonitoredItem) ItemStatus {
	now := s.clock.Now()
	status := ItemStatus{
		Item:   item,
		Status: domain.Classify(item.LastObservedAt, now, s.thresholds),
	}

	if item.LastObservedAt != nil {
		elapsed := now.Sub(*item.LastObservedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		status.Elapsed = &elapsed
	}

	return status
}
