package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vterekhov/procurement-backend/internal/avatar"
	"github.com/vterekhov/procurement-backend/internal/cache"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/db"
	"github.com/vterekhov/procurement-backend/internal/mailer"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"github.com/vterekhov/procurement-backend/internal/storage"
	"github.com/vterekhov/procurement-backend/internal/worker"
	"go.uber.org/zap"
)

// The worker consumes queued tasks: outbound emails and avatar
// processing. It shares the database and storage with the API but runs
// as a separate process.
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

	status, err := cache.NewTaskStatusStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	files, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		logger.Fatal("init file storage", zap.Error(err))
	}

	users := repository.NewUserRepository(conn)
	emails := worker.NewEmailHandler(mailer.New(cfg))
	avatars := worker.NewAvatarHandler(avatar.NewProcessor(files), users, status, logger)

	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTaskTopic, emails, avatars, logger)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTaskTopic))
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("worker stopped")
}
