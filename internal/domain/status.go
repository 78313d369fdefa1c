package domain

import (
	"fmt"
	"time"
)

// DisplayStatus is the freshness bucket derived from the time elapsed since
// an item was last observed. Observed statuses are ordered by severity:
// StatusActive < StatusRecent < StatusPast < StatusIdle.
type DisplayStatus int

const (
	StatusUnknown DisplayStatus = iota
	StatusActive
	StatusRecent
	StatusPast
	StatusIdle
)

// Token returns the visual state token consumed by the styling layer.
func (s DisplayStatus) Token() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRecent:
		return "recent"
	case StatusPast:
		return "past"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

func (s DisplayStatus) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusRecent:
		return "Recent"
	case StatusPast:
		return "Past"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// MarshalText renders the status as its token in JSON and TOML output.
func (s DisplayStatus) MarshalText() ([]byte, error) {
	return []byte(s.Token()), nil
}

// Thresholds holds the ordered upper bounds of the freshness buckets.
// Each bound is exclusive: an elapsed time equal to a bound falls into the
// next bucket.
type Thresholds struct {
	Active time.Duration
	Recent time.Duration
	Past   time.Duration
}

// DefaultThresholds returns the stock decay policy: items observed within
// 5 minutes are active, within 30 minutes recent, within 2 hours past,
// anything older is idle.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Active: 5 * time.Minute,
		Recent: 30 * time.Minute,
		Past:   2 * time.Hour,
	}
}

func (t Thresholds) Validate() error {
	if t.Active <= 0 {
		return fmt.Errorf("active threshold must be positive, got %s", t.Active)
	}
	if t.Recent <= t.Active {
		return fmt.Errorf("recent threshold %s must exceed active threshold %s", t.Recent, t.Active)
	}
	if t.Past <= t.Recent {
		return fmt.Errorf("past threshold %s must exceed recent threshold %s", t.Past, t.Recent)
	}

	return nil
}

// Classify maps the time elapsed between lastObservedAt and now into a
// DisplayStatus. A nil lastObservedAt means the item was never observed and
// yields StatusUnknown. A lastObservedAt in the future (clock skew) is
// clamped to zero elapsed and yields StatusActive. Classify is a pure
// function of its inputs and never fails.
func Classify(lastObservedAt *time.Time, now time.Time, th Thresholds) DisplayStatus {
	if lastObservedAt == nil {
		return StatusUnknown
	}

	return ClassifyElapsed(now.Sub(*lastObservedAt), th)
}

// ClassifyElapsed buckets an elapsed duration. Intervals are half-open:
// the lower bound is inclusive, the upper bound exclusive.
func ClassifyElapsed(elapsed time.Duration, th Thresholds) DisplayStatus {
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < th.Active:
		return StatusActive
	case elapsed < th.Recent:
		return StatusRecent
	case elapsed < th.Past:
		return StatusPast
	default:
		return StatusIdle
	}
}
