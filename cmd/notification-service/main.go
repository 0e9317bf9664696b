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
	"auction-settlement/internal/api/middleware"
	"auction-settlement/internal/config"
	"auction-settlement/internal/infrastructure/redis"
	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
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

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}

	stateCache := redis.NewRedisStateCache(rdb, cfg.Redis.StateTTL)
	eventSubscriber := redis.NewRedisEventSubscriber(rdb, cfg.Notify.Channel, log)

	connManager := websocket.NewConnectionManager(log)
	broadcaster := websocket.NewWebSocketBroadcaster(connManager)
	listener := services.NewClosureListener(stateCache, connManager, broadcaster, log)

	router := mux.NewRouter()
	router.Use(middleware.CORSWithLogging(log))

	handlers.NewWebSocketHandlers(stateCache, connManager, log).Register(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()

	go func() {
		if err := listener.Start(listenCtx, eventSubscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("Closure listener failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.NotifierServer.Host, cfg.NotifierServer.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting notification service", "address", server.Addr, "channel", cfg.Notify.Channel)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification service...")

	stopListening()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Notification service stopped")
}
