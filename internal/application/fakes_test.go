package application

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memRepo struct {
	items map[domain.ItemID]domain.MonitoredItem
	saves int
}

func newMemRepo(items ...domain.MonitoredItem) *memRepo {
	repo := &memRepo{items: map[domain.ItemID]domain.MonitoredItem{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *memRepo) GetByID(_ context.Context, id domain.ItemID) (domain.MonitoredItem, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.MonitoredItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (r *memRepo) List(_ context.Context) ([]domain.MonitoredItem, error) {
	items := make([]domain.MonitoredItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memRepo) Save(_ context.Context, item domain.MonitoredItem) error {
	r.items[item.ID] = item
	r.saves++
	return nil
}

func (r *memRepo) Delete(_ context.Context, id domain.ItemID) error {
	delete(r.items, id)
	return nil
}

type memLog struct {
	entries []domain.Observation
}

func (l *memLog) Append(_ context.Context, obs domain.Observation, keep int) error {
	l.entries = append(l.entries, obs)
	if keep <= 0 {
		return nil
	}

	total := 0
	for _, entry := range l.entries {
		if entry.ItemID == obs.ItemID {
			total++
		}
	}

	drop := total - keep
	if drop <= 0 {
		return nil
	}

	kept := make([]domain.Observation, 0, len(l.entries)-drop)
	for _, entry := range l.entries {
		if entry.ItemID == obs.ItemID && drop > 0 {
			drop--
			continue
		}
		kept = append(kept, entry)
	}
	l.entries = kept
	return nil
}

func (l *memLog) RecentByItem(_ context.Context, id domain.ItemID, limit int) ([]domain.Observation, error) {
	var out []domain.Observation
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].ItemID != id {
			continue
		}
		out = append(out, l.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (l *memLog) Close() error { return nil }

func (l *memLog) byItem(id domain.ItemID) []domain.Observation {
	var out []domain.Observation
	for _, obs := range l.entries {
		if obs.ItemID == id {
			out = append(out, obs)
		}
	}
	return out
}

type stubEntitySource struct {
	states []ports.EntityState
	err    error
}

func (s stubEntitySource) States(context.Context) ([]ports.EntityState, error) {
	return s.states, s.err
}

type stubMonitorSource struct {
	monitors []ports.Monitor
	err      error
}

func (s stubMonitorSource) Monitors(context.Context) ([]ports.Monitor, error) {
	return s.monitors, s.err
}

func (s stubMonitorSource) StreamURL(monitorID string) string {
	return "http://zm.local/cgi-bin/nph-zms?monitor=" + monitorID
}

type countingReleaser struct {
	released []domain.HandleID
}

func (r *countingReleaser) Release(h *domain.StreamHandle) bool {
	r.released = append(r.released, h.ID)
	return true
}

func TestMemLogAppendKeepsEntriesAcrossItems(t *testing.T) {
	t.Parallel()

	log := &memLog{}
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "front-door", ObservedAt: base, Source: domain.ObservationSourceManual,
	}, 200))
	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "garage-cam", ObservedAt: base.Add(time.Minute), Source: domain.ObservationSourceZoneMinder,
	}, 200))

	require.Len(t, log.byItem("front-door"), 1)
	require.Len(t, log.byItem("garage-cam"), 1)
}

func TestMemLogAppendPrunesOldestPerItem(t *testing.T) {
	t.Parallel()

	log := &memLog{}
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "front-door", ObservedAt: base, Source: domain.ObservationSourceManual,
	}, 2))
	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "garage-cam", ObservedAt: base.Add(30 * time.Second), Source: domain.ObservationSourceZoneMinder,
	}, 2))
	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "front-door", ObservedAt: base.Add(time.Minute), Source: domain.ObservationSourceManual,
	}, 2))
	require.NoError(t, log.Append(context.Background(), domain.Observation{
		ItemID: "front-door", ObservedAt: base.Add(2 * time.Minute), Source: domain.ObservationSourceManual,
	}, 2))

	frontDoor := log.byItem("front-door")
	require.Len(t, frontDoor, 2)
	require.Equal(t, base.Add(time.Minute), frontDoor[0].ObservedAt)
	require.Equal(t, base.Add(2*time.Minute), frontDoor[1].ObservedAt)

	require.Len(t, log.byItem("garage-cam"), 1)
}
