package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStatus is what the avatar status endpoint reports.
type TaskStatus struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// TaskStatusStore keeps background task progress in redis so the API
// process can answer status polls for work done by the worker.
type TaskStatusStore interface {
	Set(ctx context.Context, st TaskStatus) error
	Get(ctx context.Context, taskID string) (*TaskStatus, error)
	Close() error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewTaskStatusStore(addr, password string, db int, log *zap.Logger) (TaskStatusStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("redis connected", zap.String("addr", addr))

	return &redisStore{client: rdb, ttl: 24 * time.Hour, log: log}, nil
}

func taskKey(taskID string) string {
	return "task:" + taskID
}

func (s *redisStore) Set(ctx context.Context, st TaskStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, taskKey(st.TaskID), data, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, taskID string) (*TaskStatus, error) {
	data, err := s.client.Get(ctx, taskKey(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	var st TaskStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
