package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateAt(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func expiring(t *testing.T, expiresAt time.Time) *Item {
	t.Helper()
	item, err := NewItem("Amoxicillin 500mg", "", 1250, 40, &expiresAt)
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		expiresAt := dateAt(2026, time.October, 15, 17)
		item, err := NewItem("  Ibuprofen 200mg  ", "pain relief", 499, 100, &expiresAt)
		require.NoError(t, err)

		assert.Equal(t, "Ibuprofen 200mg", item.Name)
		assert.True(t, item.Active)
		// The expiration date is normalized to midnight regardless of the
		// time of day supplied.
		assert.Equal(t, date(2026, time.October, 15), *item.ExpiresAt)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewItem("   ", "", 100, 1, nil)
		assert.EqualError(t, err, "item name cannot be empty")
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := NewItem("Aspirin", "", 0, 1, nil)
		assert.EqualError(t, err, "unit price must be greater than zero")
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := NewItem("Aspirin", "", 100, -1, nil)
		assert.EqualError(t, err, "stock quantity cannot be negative")
	})
}

func TestIsExpired(t *testing.T) {
	today := date(2026, time.September, 1)

	t.Run("expiring today is not expired", func(t *testing.T) {
		item := expiring(t, today)
		assert.False(t, item.IsExpired(today))
	})

	t.Run("expired yesterday", func(t *testing.T) {
		item := expiring(t, date(2026, time.August, 31))
		assert.True(t, item.IsExpired(today))
	})

	t.Run("expiring tomorrow", func(t *testing.T) {
		item := expiring(t, date(2026, time.September, 2))
		assert.False(t, item.IsExpired(today))
	})

	t.Run("never expires", func(t *testing.T) {
		item, err := NewItem("Gauze", "", 300, 10, nil)
		require.NoError(t, err)
		assert.False(t, item.IsExpired(today))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		item := expiring(t, date(2026, time.September, 1))
		assert.False(t, item.IsExpired(dateAt(2026, time.September, 1, 23)))
	})
}

func TestDaysUntilExpiration(t *testing.T) {
	today := date(2026, time.September, 1)

	t.Run("no expiration date", func(t *testing.T) {
		item, err := NewItem("Gauze", "", 300, 10, nil)
		require.NoError(t, err)

		_, ok := item.DaysUntilExpiration(today)
		assert.False(t, ok)
	})

	t.Run("counts calendar days", func(t *testing.T) {
		cases := []struct {
			expiresAt time.Time
			want      int
		}{
			{date(2026, time.September, 1), 0},
			{date(2026, time.September, 2), 1},
			{date(2026, time.October, 1), 30},
			{date(2026, time.August, 30), -2},
		}

		for _, tc := range cases {
			item := expiring(t, tc.expiresAt)
			days, ok := item.DaysUntilExpiration(today)
			require.True(t, ok)
			assert.Equal(t, tc.want, days, "expires %s", tc.expiresAt.Format("2006-01-02"))
		}
	})
}

func TestIsNearExpiry(t *testing.T) {
	today := date(2026, time.September, 1)
	threshold := 30

	t.Run("inside window", func(t *testing.T) {
		item := expiring(t, date(2026, time.September, 15))
		assert.True(t, item.IsNearExpiry(today, threshold))
	})

	t.Run("expiring today", func(t *testing.T) {
		item := expiring(t, today)
		assert.True(t, item.IsNearExpiry(today, threshold))
	})

	t.Run("exactly on threshold", func(t *testing.T) {
		item := expiring(t, date(2026, time.October, 1))
		assert.True(t, item.IsNearExpiry(today, threshold))
	})

	t.Run("just past threshold", func(t *testing.T) {
		item := expiring(t, date(2026, time.October, 2))
		assert.False(t, item.IsNearExpiry(today, threshold))
	})

	t.Run("already expired", func(t *testing.T) {
		item := expiring(t, date(2026, time.August, 31))
		assert.False(t, item.IsNearExpiry(today, threshold))
	})

	t.Run("never expires", func(t *testing.T) {
		item, err := NewItem("Gauze", "", 300, 10, nil)
		require.NoError(t, err)
		assert.False(t, item.IsNearExpiry(today, threshold))
	})
}

func TestStockPredicates(t *testing.T) {
	item, err := NewItem("Paracetamol", "", 350, 5, nil)
	require.NoError(t, err)

	assert.True(t, item.HasStock())
	assert.True(t, item.HasSufficientStock(5))
	assert.False(t, item.HasSufficientStock(6))

	item.StockQuantity = 0
	assert.False(t, item.HasStock())
	assert.True(t, item.HasSufficientStock(0))
}

func TestIsSellable(t *testing.T) {
	today := date(2026, time.September, 1)

	t.Run("active in-date stocked", func(t *testing.T) {
		item := expiring(t, date(2026, time.December, 1))
		assert.True(t, item.IsSellable(today))
	})

	t.Run("inactive", func(t *testing.T) {
		item := expiring(t, date(2026, time.December, 1))
		item.Deactivate()
		assert.False(t, item.IsSellable(today))
	})

	t.Run("expired", func(t *testing.T) {
		item := expiring(t, date(2026, time.August, 1))
		assert.False(t, item.IsSellable(today))
	})

	t.Run("out of stock", func(t *testing.T) {
		item := expiring(t, date(2026, time.December, 1))
		item.StockQuantity = 0
		assert.False(t, item.IsSellable(today))
	})
}

func TestDeactivateAndRestock(t *testing.T) {
	item, err := NewItem("Paracetamol", "", 350, 5, nil)
	require.NoError(t, err)

	item.Deactivate()
	assert.False(t, item.Active)
	assert.Equal(t, 0, item.StockQuantity)

	require.NoError(t, item.SetStock(12))
	assert.True(t, item.Active)
	assert.Equal(t, 12, item.StockQuantity)

	assert.Error(t, item.SetStock(-1))
	assert.Equal(t, 12, item.StockQuantity)

	// Zeroing stock does not deactivate.
	require.NoError(t, item.SetStock(0))
	assert.True(t, item.Active)
}
