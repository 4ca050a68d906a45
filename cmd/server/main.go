package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/cache"
	"asv-water-quality/internal/config"
	"asv-water-quality/internal/handlers"
	"asv-water-quality/internal/logger"
	"asv-water-quality/internal/storage"
)

func main() {
	cfg, err := config.Load()
	logger.InitLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting water quality API")

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Инициализация MongoDB
	store, err := storage.NewMongoStore(startCtx, cfg.MongoURL, cfg.MongoDB, cfg.MongoCollection)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			slog.Warn("failed to close MongoDB", "error", err)
		}
	}()
	slog.Info("connected to MongoDB", "db", cfg.MongoDB, "collection", cfg.MongoCollection)

	// Кэш ответов опционален
	var responseCache handlers.ResponseCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(startCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			slog.Warn("response cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
			slog.Info("connected to Redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	analyzer := analytics.NewAnalyzer(cfg.IQRK, cfg.ZScoreK)
	handler := handlers.NewHandler(analyzer, store, responseCache, handlers.Options{
		QueryTimeout: cfg.QueryTimeout,
		ScanLimit:    cfg.ScanLimit,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}
