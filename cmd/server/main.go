package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/config"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/http/server"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/persistence/postgres"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/persistence/redis"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/scheduler"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Pharmacy Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	log = logger.NewLoggerWithLevel(logger.ParseLevel(cfg.App.LogLevel))

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisConn, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	itemRepo := postgres.NewItemRepository(db)
	alertScheduler := scheduler.NewAlertScheduler(
		itemRepo,
		log.WithComponent("scheduler"),
		cfg.App.AlertScanInterval(),
		cfg.App.NearExpiryDays,
		cfg.App.LowStockThreshold,
	)

	httpServer := server.NewServer(cfg, db, redisConn, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go alertScheduler.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		alertScheduler.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err.Error())
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err.Error())
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
