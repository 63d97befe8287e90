// Package worker adapts the task payloads to their executors. It runs
// in the worker process, not on the request path.
package worker

import (
	"context"

	"github.com/vterekhov/procurement-backend/internal/avatar"
	"github.com/vterekhov/procurement-backend/internal/cache"
	"github.com/vterekhov/procurement-backend/internal/mailer"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"go.uber.org/zap"
)

func NewEmailHandler(m *mailer.Mailer) queue.EmailHandler {
	return func(ctx context.Context, task queue.EmailTask) error {
		return m.Send(task.To, task.Subject, task.Template, task.Data)
	}
}

func NewAvatarHandler(proc *avatar.Processor, users repository.UserRepository, status cache.TaskStatusStore, log *zap.Logger) queue.AvatarHandler {
	setStatus := func(ctx context.Context, st cache.TaskStatus) {
		if err := status.Set(ctx, st); err != nil {
			log.Warn("set task status", zap.String("task_id", st.TaskID), zap.Error(err))
		}
	}

	return func(ctx context.Context, taskID string, task queue.AvatarTask) error {
		setStatus(ctx, cache.TaskStatus{
			TaskID:   taskID,
			Status:   cache.StatusProcessing,
			Message:  "resizing image",
			Progress: 10,
		})

		path, err := proc.Process(task.UserID, task.SourcePath)
		if err != nil {
			setStatus(ctx, cache.TaskStatus{
				TaskID:  taskID,
				Status:  cache.StatusError,
				Message: err.Error(),
			})
			return err
		}

		setStatus(ctx, cache.TaskStatus{
			TaskID:   taskID,
			Status:   cache.StatusProcessing,
			Message:  "updating profile",
			Progress: 80,
		})

		if err := users.UpdateAvatarPath(ctx, task.UserID, path); err != nil {
			setStatus(ctx, cache.TaskStatus{
				TaskID:  taskID,
				Status:  cache.StatusError,
				Message: err.Error(),
			})
			return err
		}

		setStatus(ctx, cache.TaskStatus{
			TaskID:   taskID,
			Status:   cache.StatusDone,
			Message:  "avatar processed",
			Progress: 100,
		})
		return nil
	}
}
