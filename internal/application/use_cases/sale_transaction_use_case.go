package use_cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/application/ports"
	domainErrors "github.com/pharmadesk/pharmacy-service/internal/domain/errors"
	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/clock"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/generator"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

// SaleTransactionUseCase coordinates one sale attempt: re-validate every line
// against current item state, then commit the whole batch atomically or not
// at all.
type SaleTransactionUseCase struct {
	itemRepo    ports.ItemRepository
	saleRepo    ports.SaleRepository
	cache       ports.Cache
	validation  *sales.ValidationService
	codeGen     *generator.CodeGenerator
	clk         clock.Clock
	log         *logger.Logger
	lockTimeout time.Duration
}

func NewSaleTransactionUseCase(
	itemRepo ports.ItemRepository,
	saleRepo ports.SaleRepository,
	cache ports.Cache,
	clk clock.Clock,
	log *logger.Logger,
	lockTimeout time.Duration,
) *SaleTransactionUseCase {
	return &SaleTransactionUseCase{
		itemRepo:    itemRepo,
		saleRepo:    saleRepo,
		cache:       cache,
		validation:  sales.NewValidationService(),
		codeGen:     generator.NewCodeGenerator(),
		clk:         clk,
		log:         log,
		lockTimeout: lockTimeout,
	}
}

// ValidateCart is the read-only pre-check exposed for live feedback before a
// commit attempt. Calling it twice with no intervening state change yields
// identical violation lists.
func (uc *SaleTransactionUseCase) ValidateCart(ctx context.Context, lines []sales.ProposedLine) ([]sales.Violation, error) {
	items, readErrs := uc.resolveItems(ctx, lines)
	return uc.validation.ValidateBatch(lines, items, readErrs, uc.clk.Today()), nil
}

// ProcessSale runs the whole admission gate and commit for one batch. A
// single bad line vetoes the entire batch; nothing is written on rejection.
// Persistence failures during commit surface as a failed BatchResult, never
// as partial effects.
func (uc *SaleTransactionUseCase) ProcessSale(ctx context.Context, actorID int64, lines []sales.ProposedLine) (*sales.BatchResult, error) {
	lockKey := fmt.Sprintf("sale:actor:%d", actorID)
	locked, err := uc.cache.DistributedLock(ctx, lockKey, uc.lockTimeout)
	if err != nil {
		uc.log.Error("Failed to acquire lock", "error", err, "lock_key", lockKey)
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another sale is in progress for this actor")
	}
	defer func() {
		if err := uc.cache.ReleaseLock(ctx, lockKey); err != nil {
			uc.log.Error("Failed to release lock", "error", err, "lock_key", lockKey)
		}
	}()

	today := uc.clk.Today()
	items, readErrs := uc.resolveItems(ctx, lines)

	violations := uc.validation.ValidateBatch(lines, items, readErrs, today)
	if len(violations) > 0 {
		uc.log.Info("Sale batch rejected",
			"actor_id", actorID,
			"lines", len(lines),
			"violations", len(violations),
		)
		return sales.Rejected(violations), nil
	}

	batchCode, err := uc.codeGen.GenerateBatchCode()
	if err != nil {
		uc.log.Error("Failed to generate batch code", "error", err)
		return sales.Failed(err.Error()), nil
	}

	// Unit prices are captured from the items read during this validation
	// pass; the totals below are the committed line totals.
	candidates := make([]*sales.CommittedSale, 0, len(lines))
	for _, line := range lines {
		item := items[line.ItemID]
		candidate, err := sales.NewCommittedSale(line.ItemID, actorID, line.Quantity, item.PriceCents)
		if err != nil {
			return sales.Failed(err.Error()), nil
		}
		candidate.BatchCode = batchCode
		candidates = append(candidates, candidate)
	}

	committed, err := uc.saleRepo.InsertBatch(ctx, candidates)
	if err != nil {
		if errors.Is(err, domainErrors.ErrStockConflict) {
			uc.log.Warn("Sale batch hit a commit-time stock conflict",
				"actor_id", actorID,
				"batch_code", batchCode,
			)
		} else {
			uc.log.Error("Sale batch commit failed",
				"actor_id", actorID,
				"batch_code", batchCode,
				"error", err.Error(),
			)
		}
		return sales.Failed(err.Error()), nil
	}

	result := sales.Committed(batchCode, committed)

	day := today.Format("2006-01-02")
	if err := uc.cache.IncrementDailySaleCounters(ctx, day, result.CommittedCount, result.TotalUnits, result.TotalCents); err != nil {
		uc.log.Warn("Failed to increment daily sale counters", "error", err, "day", day)
	}

	uc.log.Info("Sale batch committed",
		"actor_id", actorID,
		"batch_code", batchCode,
		"lines", result.CommittedCount,
		"units", result.TotalUnits,
		"total_cents", result.TotalCents,
	)

	return result, nil
}

// resolveItems fetches each distinct item once, in first-appearance order.
// Missing items are simply absent from the map; read failures land in the
// second map so validation can report them per line.
func (uc *SaleTransactionUseCase) resolveItems(ctx context.Context, lines []sales.ProposedLine) (map[int64]*inventory.Item, map[int64]error) {
	items := make(map[int64]*inventory.Item, len(lines))
	readErrs := make(map[int64]error)

	for _, line := range lines {
		if _, seen := items[line.ItemID]; seen {
			continue
		}
		if _, failed := readErrs[line.ItemID]; failed {
			continue
		}

		item, err := uc.itemRepo.GetByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrItemNotFound) {
				continue
			}
			uc.log.Error("Failed to read item during validation", "error", err, "item_id", line.ItemID)
			readErrs[line.ItemID] = err
			continue
		}
		items[line.ItemID] = item
	}

	return items, readErrs
}
