package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/pkg/clock"
)

// DefaultNearExpiryDays is the near-expiry window used when the caller does
// not configure one.
const DefaultNearExpiryDays = 30

// Item is a stocked, sellable good. ExpiresAt is nil for items that never
// expire; Active is false after soft-deletion.
type Item struct {
	ID            int64
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	ExpiresAt     *time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewItem(name, description string, priceCents int64, stockQuantity int, expiresAt *time.Time) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("item name cannot be empty")
	}

	if priceCents <= 0 {
		return nil, errors.New("unit price must be greater than zero")
	}

	if stockQuantity < 0 {
		return nil, errors.New("stock quantity cannot be negative")
	}

	if expiresAt != nil {
		midnight := clock.Midnight(*expiresAt)
		expiresAt = &midnight
	}

	return &Item{
		Name:          name,
		Description:   description,
		PriceCents:    priceCents,
		StockQuantity: stockQuantity,
		ExpiresAt:     expiresAt,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// IsExpired reports whether the expiration date lies strictly before today.
// An item expiring today is still sellable.
func (i *Item) IsExpired(today time.Time) bool {
	if i.ExpiresAt == nil {
		return false
	}
	return clock.Midnight(*i.ExpiresAt).Before(clock.Midnight(today))
}

// DaysUntilExpiration returns the signed day count until the expiration date
// (negative once expired). ok is false when the item never expires; the day
// count is meaningless in that case.
func (i *Item) DaysUntilExpiration(today time.Time) (days int, ok bool) {
	if i.ExpiresAt == nil {
		return 0, false
	}
	diff := clock.Midnight(*i.ExpiresAt).Sub(clock.Midnight(today))
	return int(diff.Hours() / 24), true
}

// IsNearExpiry reports whether the item expires within thresholdDays from
// today, inclusive on both ends. Expired items are not near-expiry.
func (i *Item) IsNearExpiry(today time.Time, thresholdDays int) bool {
	days, ok := i.DaysUntilExpiration(today)
	if !ok {
		return false
	}
	return days >= 0 && days <= thresholdDays
}

func (i *Item) HasStock() bool {
	return i.StockQuantity > 0
}

func (i *Item) HasSufficientStock(requestedQty int) bool {
	return i.StockQuantity >= requestedQty
}

// IsSellable is the gating predicate run before per-line quantity checks.
func (i *Item) IsSellable(today time.Time) bool {
	return i.Active && !i.IsExpired(today) && i.HasStock()
}

// Deactivate soft-deletes the item. The record survives for historical
// linkage from committed sales.
func (i *Item) Deactivate() {
	i.Active = false
	i.StockQuantity = 0
}

// SetStock applies a stock edit. Restocking an inactive item re-activates it.
func (i *Item) SetStock(quantity int) error {
	if quantity < 0 {
		return errors.New("stock quantity cannot be negative")
	}

	i.StockQuantity = quantity
	if quantity > 0 {
		i.Active = true
	}
	return nil
}
