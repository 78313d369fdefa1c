package ports

import (
	"context"

	"github.com/bnema/homewatch-cli/internal/domain"
)

// ObservationLog is an append-only, per-item bounded observation history.
// Append prunes the item's history down to keep rows after inserting; a
// keep of zero or less disables pruning.
type ObservationLog interface {
	Append(ctx context.Context, obs domain.Observation, keep int) error
	RecentByItem(ctx context.Context, id domain.ItemID, limit int) ([]domain.Observation, error)
	Close() error
}
