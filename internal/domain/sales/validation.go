package sales

import (
	"fmt"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
)

// ValidationService runs the pure per-line admission checks over items that
// have already been resolved from the repository. It holds no state and never
// touches I/O; fetching is the caller's job.
type ValidationService struct{}

func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// AggregateDemand sums requested quantities per item across the whole batch.
// Two lines for the same item that individually fit available stock must not
// jointly overdraw it, so sufficiency is always judged against this sum.
func AggregateDemand(lines []ProposedLine) map[int64]int {
	demand := make(map[int64]int, len(lines))
	for _, line := range lines {
		demand[line.ItemID] += line.Quantity
	}
	return demand
}

// ValidateBatch checks every line in input order and accumulates all
// violations; it never stops at the first failure. items maps item IDs to the
// resolved records; a missing entry means the item does not exist. readErrs
// carries per-item repository read failures, reported as violations for the
// affected lines.
//
// The returned slice is empty iff the batch is clean, which is the sole
// admission criterion for committing.
func (s *ValidationService) ValidateBatch(lines []ProposedLine, items map[int64]*inventory.Item, readErrs map[int64]error, today time.Time) []Violation {
	if len(lines) == 0 {
		return []Violation{{Message: "cart is empty"}}
	}

	demand := AggregateDemand(lines)
	violations := make([]Violation, 0)

	// Insufficient stock is judged per item, not per line, so report it only
	// once even when duplicate lines reference the same item.
	reported := make(map[int64]bool, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			violations = append(violations, Violation{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("item %d: quantity must be greater than zero", line.ItemID),
			})
			continue
		}

		if err, failed := readErrs[line.ItemID]; failed && err != nil {
			if !reported[line.ItemID] {
				reported[line.ItemID] = true
				violations = append(violations, Violation{
					ItemID:  line.ItemID,
					Message: fmt.Sprintf("item %d could not be read: %v", line.ItemID, err),
				})
			}
			continue
		}

		item, exists := items[line.ItemID]
		if !exists {
			violations = append(violations, Violation{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("item %d does not exist", line.ItemID),
			})
			continue
		}

		if item.IsExpired(today) {
			violations = append(violations, Violation{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("%s is EXPIRED; must be removed from the cart", item.Name),
			})
			continue
		}

		if !item.Active {
			violations = append(violations, Violation{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("%s is inactive", item.Name),
			})
			continue
		}

		requested := demand[line.ItemID]
		if !item.HasSufficientStock(requested) && !reported[line.ItemID] {
			reported[line.ItemID] = true
			violations = append(violations, Violation{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("%s - insufficient stock. Available: %d, Requested: %d", item.Name, item.StockQuantity, requested),
			})
		}
	}

	return violations
}
