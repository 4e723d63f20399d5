package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/pharmacy-service/internal/application/commands"
	"github.com/pharmadesk/pharmacy-service/internal/application/use_cases"
	domainErrors "github.com/pharmadesk/pharmacy-service/internal/domain/errors"
	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/clock"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

type stubItemRepo struct {
	items map[int64]*inventory.Item
}

func (r *stubItemRepo) GetByID(_ context.Context, id int64) (*inventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domainErrors.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *stubItemRepo) List(context.Context, int, int) ([]*inventory.Item, error) { return nil, nil }
func (r *stubItemRepo) Create(context.Context, *inventory.Item) error             { return nil }
func (r *stubItemRepo) Update(context.Context, *inventory.Item) error             { return nil }
func (r *stubItemRepo) Deactivate(context.Context, int64) error                   { return nil }
func (r *stubItemRepo) GetExpiringWithin(context.Context, int) ([]*inventory.Item, error) {
	return nil, nil
}
func (r *stubItemRepo) GetExpired(context.Context) ([]*inventory.Item, error) { return nil, nil }
func (r *stubItemRepo) GetLowStock(context.Context, int) ([]*inventory.Item, error) {
	return nil, nil
}

type stubSaleRepo struct {
	insertErr error
	batches   map[string][]*sales.CommittedSale
}

func (r *stubSaleRepo) InsertBatch(_ context.Context, candidates []*sales.CommittedSale) ([]*sales.CommittedSale, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}

	committed := make([]*sales.CommittedSale, 0, len(candidates))
	for i, candidate := range candidates {
		persisted := *candidate
		persisted.ID = int64(i + 1)
		persisted.SoldAt = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
		committed = append(committed, &persisted)
	}
	return committed, nil
}

func (r *stubSaleRepo) GetByBatchCode(_ context.Context, batchCode string) ([]*sales.CommittedSale, error) {
	rows, ok := r.batches[batchCode]
	if !ok {
		return nil, domainErrors.ErrBatchNotFound
	}
	return rows, nil
}

func (r *stubSaleRepo) ListByActor(context.Context, int64, int, int) ([]*sales.CommittedSale, error) {
	return nil, nil
}

type stubCache struct{}

func (c *stubCache) DistributedLock(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}
func (c *stubCache) ReleaseLock(context.Context, string) error { return nil }
func (c *stubCache) IncrementDailySaleCounters(context.Context, string, int, int, int64) error {
	return nil
}
func (c *stubCache) GetDailySaleCounters(context.Context, string) (int, int, int64, error) {
	return 0, 0, 0, nil
}

func newTestSaleHandler(t *testing.T, itemRepo *stubItemRepo, saleRepo *stubSaleRepo) *SaleHandler {
	t.Helper()

	log := logger.NewLoggerWithLevel(logger.LevelError)
	clk := clock.NewMockClock(time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC))
	useCase := use_cases.NewSaleTransactionUseCase(itemRepo, saleRepo, &stubCache{}, clk, log, time.Second)

	return NewSaleHandler(
		commands.NewProcessSaleHandler(useCase, log),
		commands.NewValidateCartHandler(useCase, log),
		saleRepo,
		log,
	)
}

func sellableItem(t *testing.T, id int64, name string, priceCents int64, stock int) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, "", priceCents, stock, nil)
	require.NoError(t, err)
	item.ID = id
	return item
}

func TestHandleProcessSale(t *testing.T) {
	t.Run("committed batch returns 200", func(t *testing.T) {
		itemRepo := &stubItemRepo{items: map[int64]*inventory.Item{
			1: sellableItem(t, 1, "Ibuprofen 200mg", 499, 10),
		}}
		handler := newTestSaleHandler(t, itemRepo, &stubSaleRepo{})

		body := `{"actor_id": 7, "lines": [{"item_id": 1, "quantity": 2}]}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleProcessSale(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result sales.BatchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, sales.MessageCommitted, result.Message)
		assert.Equal(t, int64(998), result.TotalCents)
	})

	t.Run("rejected batch returns 422", func(t *testing.T) {
		itemRepo := &stubItemRepo{items: map[int64]*inventory.Item{}}
		handler := newTestSaleHandler(t, itemRepo, &stubSaleRepo{})

		body := `{"actor_id": 7, "lines": [{"item_id": 99, "quantity": 1}]}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleProcessSale(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var result sales.BatchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, sales.MessageRejected, result.Message)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, "item 99 does not exist", result.Violations[0].Message)
	})

	t.Run("commit failure returns 500", func(t *testing.T) {
		itemRepo := &stubItemRepo{items: map[int64]*inventory.Item{
			1: sellableItem(t, 1, "Ibuprofen 200mg", 499, 10),
		}}
		saleRepo := &stubSaleRepo{
			insertErr: fmt.Errorf("item 1: %w", domainErrors.ErrStockConflict),
		}
		handler := newTestSaleHandler(t, itemRepo, saleRepo)

		body := `{"actor_id": 7, "lines": [{"item_id": 1, "quantity": 2}]}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleProcessSale(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var result sales.BatchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.True(t, strings.HasPrefix(result.Message, "Database error: "))
	})

	t.Run("missing actor returns 400", func(t *testing.T) {
		handler := newTestSaleHandler(t, &stubItemRepo{}, &stubSaleRepo{})

		body := `{"lines": [{"item_id": 1, "quantity": 2}]}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleProcessSale(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		handler := newTestSaleHandler(t, &stubItemRepo{}, &stubSaleRepo{})

		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.HandleProcessSale(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleValidateCart(t *testing.T) {
	itemRepo := &stubItemRepo{items: map[int64]*inventory.Item{
		5: sellableItem(t, 5, "Vitamin D3", 899, 2),
	}}
	handler := newTestSaleHandler(t, itemRepo, &stubSaleRepo{})

	body := `{"lines": [{"item_id": 5, "quantity": 6}]}`
	req := httptest.NewRequest(http.MethodPost, "/sales/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleValidateCart(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result commands.ValidateCartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "Vitamin D3 - insufficient stock. Available: 2, Requested: 6", result.Violations[0].Message)
}

func TestHandleGetBatch(t *testing.T) {
	row, err := sales.NewCommittedSale(1, 7, 2, 499)
	require.NoError(t, err)
	row.BatchCode = "SB-a1b2c3d4e5f60718"

	saleRepo := &stubSaleRepo{batches: map[string][]*sales.CommittedSale{
		"SB-a1b2c3d4e5f60718": {row},
	}}
	handler := newTestSaleHandler(t, &stubItemRepo{}, saleRepo)

	t.Run("known batch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sales/SB-a1b2c3d4e5f60718", nil)
		rec := httptest.NewRecorder()

		handler.HandleGetBatch(rec, req, "SB-a1b2c3d4e5f60718")

		require.Equal(t, http.StatusOK, rec.Code)

		var detail BatchDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "SB-a1b2c3d4e5f60718", detail.BatchCode)
		assert.Equal(t, 2, detail.TotalUnits)
		assert.Equal(t, int64(998), detail.TotalCents)
	})

	t.Run("unknown batch returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sales/SB-ffffffffffffffff", nil)
		rec := httptest.NewRecorder()

		handler.HandleGetBatch(rec, req, "SB-ffffffffffffffff")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
