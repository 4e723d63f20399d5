package postgres

import (
	"context"
	"database/sql"
	"time"

	domainErrors "github.com/pharmadesk/pharmacy-service/internal/domain/errors"
	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{
		db: conn.GetDB(),
	}
}

const itemColumns = "id, name, description, price_cents, stock_quantity, expires_at, active, created_at, updated_at"

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*inventory.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
	`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "items", query, id)
	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]*inventory.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "items", query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *ItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO items (name, description, price_cents, stock_quantity, expires_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "INSERT", "items", query,
		item.Name, nullString(item.Description), item.PriceCents,
		item.StockQuantity, nullTime(item.ExpiresAt), item.Active,
	)

	return row.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *ItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, price_cents = $4, stock_quantity = $5,
		    expires_at = $6, active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "UPDATE", "items", query,
		item.ID, item.Name, nullString(item.Description), item.PriceCents,
		item.StockQuantity, nullTime(item.ExpiresAt), item.Active,
	)

	if err := row.Scan(&item.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domainErrors.ErrItemNotFound
		}
		return err
	}

	return nil
}

// Deactivate soft-deletes: the row stays for historical linkage from sales,
// with stock zeroed so the deactivation invariant holds in the store too.
func (r *ItemRepository) Deactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE items
		SET active = FALSE, stock_quantity = 0, updated_at = NOW()
		WHERE id = $1
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "items", query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domainErrors.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) GetExpiringWithin(ctx context.Context, days int) ([]*inventory.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active
		  AND expires_at IS NOT NULL
		  AND expires_at >= CURRENT_DATE
		  AND expires_at <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY expires_at
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "items", query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *ItemRepository) GetExpired(ctx context.Context) ([]*inventory.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active
		  AND expires_at IS NOT NULL
		  AND expires_at < CURRENT_DATE
		ORDER BY expires_at
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "items", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *ItemRepository) GetLowStock(ctx context.Context, threshold int) ([]*inventory.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active AND stock_quantity <= $1
		ORDER BY stock_quantity
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "items", query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*inventory.Item, error) {
	var item inventory.Item
	var description sql.NullString
	var expiresAt sql.NullTime

	err := row.Scan(
		&item.ID, &item.Name, &description, &item.PriceCents,
		&item.StockQuantity, &expiresAt, &item.Active,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = description.String
	}

	if expiresAt.Valid {
		item.ExpiresAt = &expiresAt.Time
	}

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]*inventory.Item, error) {
	var items []*inventory.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
