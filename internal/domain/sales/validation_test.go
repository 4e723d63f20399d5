package sales

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
)

var validationToday = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

func stockedItem(t *testing.T, id int64, name string, stock int) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, "", 500, stock, nil)
	require.NoError(t, err)
	item.ID = id
	return item
}

func messages(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

func TestValidateBatchEmptyCart(t *testing.T) {
	svc := NewValidationService()

	violations := svc.ValidateBatch(nil, nil, nil, validationToday)

	require.Len(t, violations, 1)
	assert.Equal(t, "cart is empty", violations[0].Message)
	assert.Zero(t, violations[0].ItemID)
}

func TestValidateBatchCleanCart(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		1: stockedItem(t, 1, "Ibuprofen 200mg", 10),
		2: stockedItem(t, 2, "Amoxicillin 500mg", 3),
	}
	lines := []ProposedLine{
		{ItemID: 1, Quantity: 4},
		{ItemID: 2, Quantity: 3},
	}

	violations := svc.ValidateBatch(lines, items, nil, validationToday)

	assert.Empty(t, violations)
}

func TestValidateBatchAccumulatesAllViolations(t *testing.T) {
	svc := NewValidationService()

	expiredDate := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	expired, err := inventory.NewItem("Insulin Glargine", "", 4500, 8, &expiredDate)
	require.NoError(t, err)
	expired.ID = 3

	inactive := stockedItem(t, 4, "Codeine Syrup", 5)
	inactive.Active = false

	short := stockedItem(t, 5, "Vitamin D3", 2)

	items := map[int64]*inventory.Item{
		3: expired,
		4: inactive,
		5: short,
	}
	lines := []ProposedLine{
		{ItemID: 99, Quantity: 1},
		{ItemID: 3, Quantity: 1},
		{ItemID: 4, Quantity: 1},
		{ItemID: 5, Quantity: 6},
	}

	violations := svc.ValidateBatch(lines, items, nil, validationToday)

	assert.Equal(t, []string{
		"item 99 does not exist",
		"Insulin Glargine is EXPIRED; must be removed from the cart",
		"Codeine Syrup is inactive",
		"Vitamin D3 - insufficient stock. Available: 2, Requested: 6",
	}, messages(violations))
}

func TestValidateBatchAggregatesDuplicateLineDemand(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		7: stockedItem(t, 7, "Omeprazole 20mg", 10),
	}

	// Each line fits individually but together they overdraw stock. Only one
	// violation is reported for the item.
	lines := []ProposedLine{
		{ItemID: 7, Quantity: 6},
		{ItemID: 7, Quantity: 6},
	}

	violations := svc.ValidateBatch(lines, items, nil, validationToday)

	require.Len(t, violations, 1)
	assert.Equal(t, int64(7), violations[0].ItemID)
	assert.Equal(t, "Omeprazole 20mg - insufficient stock. Available: 10, Requested: 12", violations[0].Message)
}

func TestValidateBatchDuplicateLinesWithinStock(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		7: stockedItem(t, 7, "Omeprazole 20mg", 10),
	}
	lines := []ProposedLine{
		{ItemID: 7, Quantity: 4},
		{ItemID: 7, Quantity: 6},
	}

	violations := svc.ValidateBatch(lines, items, nil, validationToday)

	assert.Empty(t, violations)
}

func TestValidateBatchNonPositiveQuantity(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		1: stockedItem(t, 1, "Ibuprofen 200mg", 10),
	}
	lines := []ProposedLine{
		{ItemID: 1, Quantity: 0},
		{ItemID: 1, Quantity: -2},
	}

	violations := svc.ValidateBatch(lines, items, nil, validationToday)

	assert.Equal(t, []string{
		"item 1: quantity must be greater than zero",
		"item 1: quantity must be greater than zero",
	}, messages(violations))
}

func TestValidateBatchExpiringTodayIsSellable(t *testing.T) {
	svc := NewValidationService()

	expiresToday := validationToday
	item, err := inventory.NewItem("Insulin Glargine", "", 4500, 8, &expiresToday)
	require.NoError(t, err)
	item.ID = 3

	lines := []ProposedLine{{ItemID: 3, Quantity: 2}}

	violations := svc.ValidateBatch(lines, map[int64]*inventory.Item{3: item}, nil, validationToday)

	assert.Empty(t, violations)
}

func TestValidateBatchReadFailureBecomesViolation(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		1: stockedItem(t, 1, "Ibuprofen 200mg", 10),
	}
	readErrs := map[int64]error{
		2: errors.New("connection reset"),
	}
	lines := []ProposedLine{
		{ItemID: 1, Quantity: 1},
		{ItemID: 2, Quantity: 1},
		{ItemID: 2, Quantity: 3},
	}

	violations := svc.ValidateBatch(lines, items, readErrs, validationToday)

	require.Len(t, violations, 1)
	assert.Equal(t, "item 2 could not be read: connection reset", violations[0].Message)
}

func TestValidateBatchDeterministic(t *testing.T) {
	svc := NewValidationService()
	items := map[int64]*inventory.Item{
		5: stockedItem(t, 5, "Vitamin D3", 2),
	}
	lines := []ProposedLine{
		{ItemID: 5, Quantity: 6},
		{ItemID: 42, Quantity: 1},
	}

	first := svc.ValidateBatch(lines, items, nil, validationToday)
	second := svc.ValidateBatch(lines, items, nil, validationToday)

	assert.Equal(t, first, second)
}

func TestAggregateDemand(t *testing.T) {
	demand := AggregateDemand([]ProposedLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 1},
		{ItemID: 1, Quantity: 3},
	})

	assert.Equal(t, map[int64]int{1: 5, 2: 1}, demand)
}
