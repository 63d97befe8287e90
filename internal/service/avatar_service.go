package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vterekhov/procurement-backend/internal/avatar"
	"github.com/vterekhov/procurement-backend/internal/cache"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"github.com/vterekhov/procurement-backend/internal/storage"
	"go.uber.org/zap"
)

type AvatarService interface {
	// Upload stores the original and queues processing. The returned
	// task id is what the status endpoint polls.
	Upload(ctx context.Context, userID uint64, r io.Reader, size int64, contentType string) (string, error)
	Status(ctx context.Context, taskID string) (*cache.TaskStatus, error)
}

type avatarService struct {
	store  storage.FileStore
	tasks  TaskQueue
	status cache.TaskStatusStore
	log    *zap.Logger
}

func NewAvatarService(store storage.FileStore, tasks TaskQueue, status cache.TaskStatusStore, log *zap.Logger) AvatarService {
	return &avatarService{store: store, tasks: tasks, status: status, log: log}
}

func (s *avatarService) Upload(ctx context.Context, userID uint64, r io.Reader, size int64, contentType string) (string, error) {
	if err := avatar.ValidUpload(size, contentType); err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}

	taskID := uuid.NewString()
	sourcePath := fmt.Sprintf("avatars/original/%s", taskID)
	if _, err := s.store.Save(sourcePath, r); err != nil {
		return "", err
	}

	err := s.tasks.Enqueue(ctx, queue.Task{
		ID:   taskID,
		Type: queue.TaskProcessAvatar,
		Avatar: &queue.AvatarTask{
			UserID:     userID,
			SourcePath: sourcePath,
		},
	})
	if err != nil {
		_ = s.store.Remove(sourcePath)
		return "", err
	}

	if err := s.status.Set(ctx, cache.TaskStatus{
		TaskID:   taskID,
		Status:   cache.StatusPending,
		Message:  "queued for processing",
		Progress: 0,
	}); err != nil {
		s.log.Warn("set task status", zap.String("task_id", taskID), zap.Error(err))
	}

	return taskID, nil
}

func (s *avatarService) Status(ctx context.Context, taskID string) (*cache.TaskStatus, error) {
	st, err := s.status.Get(ctx, taskID)
	if err != nil {
		if err == cache.ErrTaskNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}
