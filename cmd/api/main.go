package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vterekhov/procurement-backend/internal/cache"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/db"
	"github.com/vterekhov/procurement-backend/internal/metrics"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"github.com/vterekhov/procurement-backend/internal/server"
	"github.com/vterekhov/procurement-backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appMetrics, meterProvider, err := metrics.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("init metrics", zap.Error(err))
	}
	if meterProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown meter provider", zap.Error(err))
			}
		}()
	}

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTaskTopic)
	defer producer.Close()

	status, err := cache.NewTaskStatusStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	files, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		logger.Fatal("init file storage", zap.Error(err))
	}

	srv := server.New(conn, cfg, producer, status, files, appMetrics, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		errCh <- srv.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", zap.Error(err))
			os.Exit(1)
		}
	}
}
