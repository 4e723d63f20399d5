package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/application/commands"
	"github.com/pharmadesk/pharmacy-service/internal/application/use_cases"
	"github.com/pharmadesk/pharmacy-service/internal/config"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/http/handlers"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/persistence/postgres"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/persistence/redis"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/clock"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

type Server struct {
	server        *http.Server
	logger        *logger.Logger
	healthHandler *handlers.HealthHandler
	saleHandler   *handlers.SaleHandler
	itemHandler   *handlers.ItemHandler
}

func NewServer(cfg *config.Config, pgConn *postgres.Connection, redisConn *redis.Connection, log *logger.Logger) *Server {
	itemRepo := postgres.NewItemRepository(pgConn)
	saleRepo := postgres.NewSaleRepository(pgConn)
	cache := redis.NewCache(redisConn, log)
	clk := clock.NewRealClock()

	saleUseCase := use_cases.NewSaleTransactionUseCase(
		itemRepo,
		saleRepo,
		cache,
		clk,
		log,
		cfg.App.ActorLockTimeout(),
	)

	processHandler := commands.NewProcessSaleHandler(saleUseCase, log)
	validateHandler := commands.NewValidateCartHandler(saleUseCase, log)

	saleHandler := handlers.NewSaleHandler(processHandler, validateHandler, saleRepo, log)
	itemHandler := handlers.NewItemHandler(itemRepo, clk, log, cfg.App.NearExpiryDays, cfg.App.LowStockThreshold)
	healthHandler := handlers.NewHealthHandler(pgConn.GetDB(), redisConn.GetClient(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        log,
		healthHandler: healthHandler,
		saleHandler:   saleHandler,
		itemHandler:   itemHandler,
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
