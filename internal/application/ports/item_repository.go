package ports

import (
	"context"

	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
)

type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*inventory.Item, error)
	List(ctx context.Context, limit, offset int) ([]*inventory.Item, error)
	Create(ctx context.Context, item *inventory.Item) error
	Update(ctx context.Context, item *inventory.Item) error
	Deactivate(ctx context.Context, id int64) error

	GetExpiringWithin(ctx context.Context, days int) ([]*inventory.Item, error)
	GetExpired(ctx context.Context) ([]*inventory.Item, error)
	GetLowStock(ctx context.Context, threshold int) ([]*inventory.Item, error)
}
