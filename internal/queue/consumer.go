package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type EmailHandler func(ctx context.Context, task EmailTask) error

type AvatarHandler func(ctx context.Context, taskID string, task AvatarTask) error

// Consumer reads the tasks topic and executes tasks in order. Failures
// are logged and the offset is committed anyway: tasks are non-critical
// side effects and must not wedge the partition.
type Consumer struct {
	reader  *kafka.Reader
	emails  EmailHandler
	avatars AvatarHandler
	log     *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, emails EmailHandler, avatars AvatarHandler, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &Consumer{reader: r, emails: emails, avatars: avatars, log: log}
}

func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("task consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}

		var task Task
		if err := json.Unmarshal(m.Value, &task); err != nil {
			c.log.Error("unmarshal task", zap.ByteString("value", m.Value), zap.Error(err))
			continue
		}

		switch task.Type {
		case TaskSendEmail:
			if task.Email == nil {
				c.log.Warn("send_email task without payload", zap.String("id", task.ID))
				continue
			}
			if err := c.emails(ctx, *task.Email); err != nil {
				c.log.Error("send email failed",
					zap.String("id", task.ID),
					zap.String("to", task.Email.To),
					zap.Error(err))
				continue
			}
			c.log.Info("email sent", zap.String("to", task.Email.To), zap.String("template", task.Email.Template))
		case TaskProcessAvatar:
			if task.Avatar == nil {
				c.log.Warn("process_avatar task without payload", zap.String("id", task.ID))
				continue
			}
			if err := c.avatars(ctx, task.ID, *task.Avatar); err != nil {
				c.log.Error("avatar processing failed",
					zap.String("id", task.ID),
					zap.Uint64("user_id", task.Avatar.UserID),
					zap.Error(err))
				continue
			}
			c.log.Info("avatar processed", zap.String("id", task.ID), zap.Uint64("user_id", task.Avatar.UserID))
		default:
			c.log.Warn("unknown task type", zap.String("type", string(task.Type)))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
