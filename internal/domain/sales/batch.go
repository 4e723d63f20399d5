package sales

import (
	"errors"
	"time"
)

// ProposedLine is one cart entry before commit.
type ProposedLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// CommittedSale is a persisted sale row. ID and SoldAt are assigned by the
// store at commit; the record is immutable afterwards.
type CommittedSale struct {
	ID             int64     `json:"id"`
	BatchCode      string    `json:"batch_code"`
	ItemID         int64     `json:"item_id"`
	ActorID        int64     `json:"actor_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
	SoldAt         time.Time `json:"sold_at"`
}

// NewCommittedSale builds an unpersisted candidate row. The total is always
// recomputed here so it cannot drift from quantity and unit price.
func NewCommittedSale(itemID, actorID int64, quantity int, unitPriceCents int64) (*CommittedSale, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}

	if unitPriceCents <= 0 {
		return nil, errors.New("unit price must be greater than zero")
	}

	return &CommittedSale{
		ItemID:         itemID,
		ActorID:        actorID,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		TotalCents:     int64(quantity) * unitPriceCents,
	}, nil
}

// Violation is a human-readable reason one line (or the whole batch) cannot
// be committed. ItemID is zero for batch-level violations.
type Violation struct {
	ItemID  int64  `json:"item_id,omitempty"`
	Message string `json:"message"`
}

// BatchResult is the outcome of one transaction attempt.
type BatchResult struct {
	Success        bool        `json:"success"`
	Violations     []Violation `json:"violations,omitempty"`
	CommittedCount int         `json:"committed_count"`
	TotalUnits     int         `json:"total_units"`
	TotalCents     int64       `json:"total_cents"`
	BatchCode      string      `json:"batch_code,omitempty"`
	Message        string      `json:"message"`
}

const (
	MessageRejected  = "Validation failed. No sale was processed."
	MessageCommitted = "Sale completed successfully."
)

func Rejected(violations []Violation) *BatchResult {
	return &BatchResult{
		Success:    false,
		Violations: violations,
		Message:    MessageRejected,
	}
}

func Failed(cause string) *BatchResult {
	return &BatchResult{
		Success:    false,
		Violations: []Violation{{Message: cause}},
		Message:    "Database error: " + cause,
	}
}
