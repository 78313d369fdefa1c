package ports

import (
	"context"

	"github.com/bnema/homewatch-cli/internal/domain"
)

type ItemRepository interface {
	GetByID(ctx context.Context, id domain.ItemID) (domain.MonitoredItem, error)
	List(ctx context.Context) ([]domain.MonitoredItem, error)
	Save(ctx context.Context, item domain.MonitoredItem) error
	Delete(ctx context.Context, id domain.ItemID) error
}
