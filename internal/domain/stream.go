package domain

import (
	"time"

	"github.com/google/uuid"
)

type HandleID string

// StreamHandle is an opaque reference to a live media connection. Each
// handle carries a correlation id so releases can be traced back to the
// watch request that opened it. Handles are never reused after release.
type StreamHandle struct {
	ID        HandleID
	MonitorID string
	Source    string
	OpenedAt  time.Time
}

func NewStreamHandle(monitorID, source string, openedAt time.Time) *StreamHandle {
	return &StreamHandle{
		ID:        HandleID(uuid.NewString()),
		MonitorID: monitorID,
		Source:    source,
		OpenedAt:  openedAt,
	}
}
