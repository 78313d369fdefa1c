package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	th := DefaultThresholds()

	tests := []struct {
		name    string
		elapsed time.Duration
		want    DisplayStatus
	}{
		{name: "just observed", elapsed: 0, want: StatusActive},
		{name: "under active bound", elapsed: 4*time.Minute + 59*time.Second, want: StatusActive},
		{name: "exactly active bound is recent", elapsed: 5 * time.Minute, want: StatusRecent},
		{name: "under recent bound", elapsed: 29 * time.Minute, want: StatusRecent},
		{name: "exactly recent bound is past", elapsed: 30 * time.Minute, want: StatusPast},
		{name: "under past bound", elapsed: 119 * time.Minute, want: StatusPast},
		{name: "exactly past bound is idle", elapsed: 2 * time.Hour, want: StatusIdle},
		{name: "days old", elapsed: 72 * time.Hour, want: StatusIdle},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			observed := now.Add(-tc.elapsed)
			assert.Equal(t, tc.want, Classify(&observed, now, th))
			assert.Equal(t, tc.want, ClassifyElapsed(tc.elapsed, th))
		})
	}
}

func TestClassifyNeverObservedIsUnknown(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusUnknown, Classify(nil, now, DefaultThresholds()))
	assert.Equal(t, StatusUnknown, Classify(nil, time.Time{}, DefaultThresholds()))
}

func TestClassifyClockSkewClampsToActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Minute)

	assert.Equal(t, StatusActive, Classify(&future, now, DefaultThresholds()))
	assert.Equal(t, StatusActive, ClassifyElapsed(-1*time.Hour, DefaultThresholds()))
}

func TestClassifyIsPureAndMonotonic(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()

	previous := StatusActive
	for elapsed := time.Duration(0); elapsed <= 3*time.Hour; elapsed += 13 * time.Second {
		got := ClassifyElapsed(elapsed, th)
		require.GreaterOrEqual(t, got, previous, "severity regressed at elapsed=%s", elapsed)
		require.Equal(t, got, ClassifyElapsed(elapsed, th), "classification not repeatable at elapsed=%s", elapsed)
		previous = got
	}
	assert.Equal(t, StatusIdle, previous)
}

func TestThresholdsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		th      Thresholds
		wantErr string
	}{
		{name: "defaults", th: DefaultThresholds()},
		{
			name:    "zero active",
			th:      Thresholds{Active: 0, Recent: time.Minute, Past: time.Hour},
			wantErr: "active threshold must be positive",
		},
		{
			name:    "recent not above active",
			th:      Thresholds{Active: time.Minute, Recent: time.Minute, Past: time.Hour},
			wantErr: "must exceed active threshold",
		},
		{
			name:    "past not above recent",
			th:      Thresholds{Active: time.Minute, Recent: time.Hour, Past: time.Minute},
			wantErr: "must exceed recent threshold",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.th.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDisplayStatusTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status DisplayStatus
		token  string
		label  string
	}{
		{StatusActive, "active", "Active"},
		{StatusRecent, "recent", "Recent"},
		{StatusPast, "past", "Past"},
		{StatusIdle, "idle", "Idle"},
		{StatusUnknown, "unknown", "Unknown"},
		{DisplayStatus(99), "unknown", "Unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.token, tc.status.Token())
		assert.Equal(t, tc.label, tc.status.String())

		text, err := tc.status.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, tc.token, string(text))
	}
}
