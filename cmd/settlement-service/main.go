package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-settlement/internal/api/handlers"
	"auction-settlement/internal/config"
	"auction-settlement/internal/infrastructure/clock"
	"auction-settlement/internal/infrastructure/leader"
	"auction-settlement/internal/infrastructure/mysql"
	"auction-settlement/internal/infrastructure/redis"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"
	"auction-settlement/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}

	log, err := logger.NewWithLevel(cfg.Log.Level)
	if err != nil {
		logger.New().Fatal("Invalid log level", "level", cfg.Log.Level, "error", err)
	}
	defer logger.Sync(log)

	log.Info("Starting settlement service", "config", cfg.GetConfigString())

	loc, err := cfg.Clock.Location()
	if err != nil {
		log.Fatal("Invalid clock timezone", "error", err)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := utils.InitializeMysql(ctx, cfg.MySQL)
	if err != nil {
		log.Fatal("Failed to connect to MySQL", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	// Initialize repositories
	bidRepo := mysql.NewMySQLBidRepository(db)
	auctionRepo := mysql.NewMySQLAuctionRepository(db, bidRepo)
	paymentRepo := mysql.NewMySQLPaymentRepository(db)
	runRepo := mysql.NewMySQLSweepRunRepository(db)

	systemClock := clock.NewSystemClock(loc)
	notifier := redis.NewClosureNotifier(rdb, cfg.Notify.Channel, systemClock)

	// Initialize sweeps
	closer := services.NewAuctionCloser(auctionRepo, notifier, systemClock, log)
	generator := services.NewPaymentGenerator(auctionRepo, paymentRepo,
		services.NewHighestBidEvaluator(), systemClock, log)
	runner := services.NewSettlementRunner(closer, generator, runRepo, systemClock, log)

	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)
	scheduler := services.NewCronSweepScheduler(cfg.Scheduler.Spec, runner, leaderElection, cfg.Instance.ID, log)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"error":"${error}","latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())

	handlers.NewSweepHandler(runner, log).Register(e.Group("/api/v1"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"service":     "settlement",
			"instance_id": cfg.Instance.ID,
			"timestamp":   systemClock.Now().Format(time.RFC3339),
		})
	})

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	if cfg.Scheduler.Enabled {
		if err := scheduler.Start(runCtx); err != nil {
			log.Fatal("Failed to start scheduler", "spec", cfg.Scheduler.Spec, "error", err)
		}

		// Try to become leader
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				became, err := leaderElection.BecomeLeader(runCtx, cfg.Instance.ID)
				if err != nil {
					log.Error("Failed to attempt leadership", "error", err)
				} else if became {
					log.Info("Became settlement leader", "instance_id", cfg.Instance.ID)
				}

				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	} else {
		log.Info("Scheduler disabled, sweeps run only on demand")
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting settlement server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down settlement service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if cfg.Scheduler.Enabled {
		if err := scheduler.Stop(); err != nil {
			log.Error("Failed to stop scheduler", "error", err)
		}
		stopRun()
		if err := leaderElection.ReleaseLeadership(shutdownCtx, cfg.Instance.ID); err != nil {
			log.Error("Failed to release leadership", "error", err)
		}
	}

	log.Info("Settlement service stopped", "total_closed", closer.TotalClosed(),
		"total_payments", generator.PaymentsGenerated())
}
