package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	domainErrors "github.com/pharmadesk/pharmacy-service/internal/domain/errors"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
)

type SaleRepository struct {
	db *sql.DB
}

func NewSaleRepository(conn *Connection) *SaleRepository {
	return &SaleRepository{
		db: conn.GetDB(),
	}
}

// InsertBatch persists all candidate rows and applies the matching stock
// decrements inside one serializable transaction. The decrement is an
// explicit statement, not a table trigger, so the invariant that sales and
// stock move together is visible here and enforced by the guarded UPDATE.
func (r *SaleRepository) InsertBatch(ctx context.Context, candidates []*sales.CommittedSale) ([]*sales.CommittedSale, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Demand per item across duplicate lines; decrements run in ascending
	// item order so concurrent batches take row locks consistently.
	demand := make(map[int64]int, len(candidates))
	for _, candidate := range candidates {
		demand[candidate.ItemID] += candidate.Quantity
	}

	itemIDs := make([]int64, 0, len(demand))
	for itemID := range demand {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	decrementQuery := `
		UPDATE items
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND active AND stock_quantity >= $2
	`

	for _, itemID := range itemIDs {
		var result sql.Result
		result, err = monitoring.InstrumentTxExec(ctx, tx, "UPDATE", "items", decrementQuery, itemID, demand[itemID])
		if err != nil {
			return nil, err
		}

		var rowsAffected int64
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rowsAffected == 0 {
			monitoring.StockConflictsTotal.Inc()
			err = fmt.Errorf("item %d: %w", itemID, domainErrors.ErrStockConflict)
			return nil, err
		}
	}

	insertQuery := `
		INSERT INTO sales (batch_code, item_id, actor_id, quantity, unit_price_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sold_at
	`

	committed := make([]*sales.CommittedSale, 0, len(candidates))
	for _, candidate := range candidates {
		row := tx.QueryRowContext(ctx, insertQuery,
			candidate.BatchCode, candidate.ItemID, candidate.ActorID,
			candidate.Quantity, candidate.UnitPriceCents, candidate.TotalCents,
		)

		persisted := *candidate
		if err = row.Scan(&persisted.ID, &persisted.SoldAt); err != nil {
			return nil, err
		}
		committed = append(committed, &persisted)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.RecordBatchCommitted(len(committed))

	return committed, nil
}

func (r *SaleRepository) GetByBatchCode(ctx context.Context, batchCode string) ([]*sales.CommittedSale, error) {
	query := `
		SELECT id, batch_code, item_id, actor_id, quantity, unit_price_cents, total_cents, sold_at
		FROM sales
		WHERE batch_code = $1
		ORDER BY id
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "sales", query, batchCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanSales(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domainErrors.ErrBatchNotFound
	}

	return records, nil
}

func (r *SaleRepository) ListByActor(ctx context.Context, actorID int64, limit, offset int) ([]*sales.CommittedSale, error) {
	query := `
		SELECT id, batch_code, item_id, actor_id, quantity, unit_price_cents, total_cents, sold_at
		FROM sales
		WHERE actor_id = $1
		ORDER BY sold_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "sales", query, actorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSales(rows)
}

func scanSales(rows *sql.Rows) ([]*sales.CommittedSale, error) {
	var records []*sales.CommittedSale

	for rows.Next() {
		var record sales.CommittedSale
		err := rows.Scan(
			&record.ID, &record.BatchCode, &record.ItemID, &record.ActorID,
			&record.Quantity, &record.UnitPriceCents, &record.TotalCents, &record.SoldAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
