package scheduler

import (
	"context"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/application/ports"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

// AlertScheduler periodically scans inventory for expired, near-expiry and
// low-stock items so the gauges stay fresh without a request touching them.
type AlertScheduler struct {
	itemRepo          ports.ItemRepository
	logger            *logger.Logger
	interval          time.Duration
	nearExpiryDays    int
	lowStockThreshold int
	stopChan          chan struct{}
}

func NewAlertScheduler(
	itemRepo ports.ItemRepository,
	log *logger.Logger,
	interval time.Duration,
	nearExpiryDays int,
	lowStockThreshold int,
) *AlertScheduler {
	return &AlertScheduler{
		itemRepo:          itemRepo,
		logger:            log,
		interval:          interval,
		nearExpiryDays:    nearExpiryDays,
		lowStockThreshold: lowStockThreshold,
		stopChan:          make(chan struct{}),
	}
}

func (s *AlertScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting inventory alert scheduler", "interval", s.interval.String())

	if err := s.scan(ctx); err != nil {
		s.logger.Error("Initial inventory scan failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Inventory alert scheduler stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Inventory alert scheduler stopped")
			return
		case <-ticker.C:
			if err := s.scan(ctx); err != nil {
				s.logger.Error("Inventory scan failed", "error", err.Error())
			}
		}
	}
}

func (s *AlertScheduler) Stop() {
	close(s.stopChan)
}

func (s *AlertScheduler) scan(ctx context.Context) error {
	expired, err := s.itemRepo.GetExpired(ctx)
	if err != nil {
		return err
	}

	nearExpiry, err := s.itemRepo.GetExpiringWithin(ctx, s.nearExpiryDays)
	if err != nil {
		return err
	}

	lowStock, err := s.itemRepo.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return err
	}

	monitoring.UpdateInventoryGauges(len(expired), len(nearExpiry), len(lowStock))

	if len(expired) > 0 {
		s.logger.Warn("Expired items still on hand", "count", len(expired))
	}
	if len(nearExpiry) > 0 {
		s.logger.Info("Items approaching expiration", "count", len(nearExpiry), "window_days", s.nearExpiryDays)
	}
	if len(lowStock) > 0 {
		s.logger.Info("Items below stock threshold", "count", len(lowStock), "threshold", s.lowStockThreshold)
	}

	return nil
}
