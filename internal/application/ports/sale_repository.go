package ports

import (
	"context"

	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
)

type SaleRepository interface {
	// InsertBatch persists every candidate row and applies the matching stock
	// decrements inside one transaction: either all rows land with
	// store-assigned identifiers and timestamps and all stock is decremented,
	// or nothing is written. A decrement that would take stock negative
	// returns ErrStockConflict and rolls the whole batch back.
	InsertBatch(ctx context.Context, candidates []*sales.CommittedSale) ([]*sales.CommittedSale, error)

	GetByBatchCode(ctx context.Context, batchCode string) ([]*sales.CommittedSale, error)
	ListByActor(ctx context.Context, actorID int64, limit, offset int) ([]*sales.CommittedSale, error)
}
