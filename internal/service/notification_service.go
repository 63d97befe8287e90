package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"go.uber.org/zap"
)

// TaskQueue is the slice of the producer the services need.
type TaskQueue interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

type NotificationService interface {
	OrderPlaced(ctx context.Context, user *model.User, order *model.Order)
	OrderStatusChanged(ctx context.Context, user *model.User, order *model.Order)
	ConfirmRegistration(ctx context.Context, user *model.User, confirmURL string)
}

// notificationService queues confirmation emails. Queue failures are
// logged and swallowed: a lost email must not fail the checkout that
// triggered it.
type notificationService struct {
	tasks TaskQueue
	log   *zap.Logger
}

func NewNotificationService(tasks TaskQueue, log *zap.Logger) NotificationService {
	return &notificationService{tasks: tasks, log: log}
}

func (s *notificationService) OrderPlaced(ctx context.Context, user *model.User, order *model.Order) {
	s.send(ctx, queue.EmailTask{
		To:       user.Email,
		Subject:  fmt.Sprintf("Order #%d placed", order.ID),
		Template: "order_placed",
		Data: map[string]any{
			"order_id":   order.ID,
			"first_name": user.FirstName,
		},
	})
}

func (s *notificationService) OrderStatusChanged(ctx context.Context, user *model.User, order *model.Order) {
	s.send(ctx, queue.EmailTask{
		To:       user.Email,
		Subject:  fmt.Sprintf("Order #%d is now %s", order.ID, order.Status),
		Template: "order_status",
		Data: map[string]any{
			"order_id":   order.ID,
			"status":     string(order.Status),
			"first_name": user.FirstName,
		},
	})
}

func (s *notificationService) ConfirmRegistration(ctx context.Context, user *model.User, confirmURL string) {
	s.send(ctx, queue.EmailTask{
		To:       user.Email,
		Subject:  "Confirm your email",
		Template: "confirm_email",
		Data: map[string]any{
			"confirm_url": confirmURL,
			"first_name":  user.FirstName,
		},
	})
}

func (s *notificationService) send(ctx context.Context, task queue.EmailTask) {
	if s.tasks == nil {
		return
	}
	err := s.tasks.Enqueue(ctx, queue.Task{
		ID:    uuid.NewString(),
		Type:  queue.TaskSendEmail,
		Email: &task,
	})
	if err != nil {
		s.log.Error("enqueue email task",
			zap.String("to", task.To),
			zap.String("template", task.Template),
			zap.Error(err))
	}
}
