package application

import (
	"context"
	"fmt"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

// StreamService opens live camera streams and hands their handles to the
// recycler, which bounds how many superseded connections stay alive.
type StreamService struct {
	monitors ports.MonitorSource
	recycler *domain.Recycler
	clock    ports.Clock
}

func NewStreamService(monitors ports.MonitorSource, recycler *domain.Recycler, clock ports.Clock) *StreamService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &StreamService{monitors: monitors, recycler: recycler, clock: clock}
}

// Watch resolves the monitor's stream URL, mints a handle for it, and makes
// it the current stream. The previously watched stream is cached or released
// per the recycler's bound.
func (s *StreamService) Watch(ctx context.Context, monitorID string) (*domain.StreamHandle, error) {
	monitors, err := s.monitors.Monitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch monitors: %w", err)
	}

	var found *ports.Monitor
	for i := range monitors {
		if monitors[i].ID == monitorID {
			found = &monitors[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("monitor %q: %w", monitorID, domain.ErrMonitorNotFound)
	}
	if !found.Enabled {
		return nil, fmt.Errorf("monitor %q is disabled", monitorID)
	}

	handle := domain.NewStreamHandle(monitorID, s.monitors.StreamURL(monitorID), s.clock.Now())
	s.recycler.RegisterActive(handle)

	return handle, nil
}

// ReportError notifies the recycler that the current consumer hit a playback
// error so it can shed cached connections.
func (s *StreamService) ReportError() {
	s.recycler.OnPlaybackError()
}

func (s *StreamService) Current() *domain.StreamHandle {
	return s.recycler.Current()
}

func (s *StreamService) History() []*domain.StreamHandle {
	return s.recycler.History()
}
