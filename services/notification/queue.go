package notification

import (
	"context"
	"encoding/json"
	"time"

	"suntrack/config"
	"suntrack/models"
	"suntrack/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePushSend is the queue task type for one push delivery.
const TypePushSend = "push:send"

// pushTaskPayload is the queued envelope of a single delivery.
type pushTaskPayload struct {
	FCMToken         string                  `json:"fcmToken"`
	NotificationType models.NotificationType `json:"notificationType"`
	Body             interface{}             `json:"body"`
	Display          *Display                `json:"display,omitempty"`
}

// NewPushTask builds the queue task for one delivery.
func NewPushTask(fcmToken string, payload Payload, display *Display) (*asynq.Task, error) {
	b, err := json.Marshal(pushTaskPayload{
		FCMToken:         fcmToken,
		NotificationType: payload.NotificationType,
		Body:             payload.Body,
		Display:          display,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushSend, b, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// QueuedPushSender enqueues deliveries instead of calling FCM inline;
// the push worker picks them up and retries transient failures. It
// keeps the PushSender contract: enqueue failures are logged, never
// returned.
type QueuedPushSender struct {
	client *asynq.Client
}

// NewQueuedPushSender wraps an initialized asynq client.
func NewQueuedPushSender(client *asynq.Client) *QueuedPushSender {
	return &QueuedPushSender{client: client}
}

func (s *QueuedPushSender) Send(ctx context.Context, fcmToken string, payload Payload, display *Display) {
	task, err := NewPushTask(fcmToken, payload, display)
	if err != nil {
		utils.GetLogger().Error("push: failed to encode queued delivery", zap.Error(err))
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		utils.GetLogger().Warn("push: failed to enqueue delivery",
			zap.String("notificationType", string(payload.NotificationType)),
			zap.Error(err))
	}
}

// PushTaskHandler adapts a PushSender into the worker-side handler.
func PushTaskHandler(delivery PushSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p pushTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return err
		}
		delivery.Send(ctx, p.FCMToken,
			Payload{NotificationType: p.NotificationType, Body: p.Body}, p.Display)
		return nil
	}
}

// QueueRedisOpt is the Redis connection the push queue lives on.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPushWorker runs the queue worker in the background.
func InitPushWorker(delivery PushSender) {
	srv := asynq.NewServer(QueueRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePushSend, PushTaskHandler(delivery))

	go func() {
		if err := srv.Run(mux); err != nil {
			utils.GetLogger().Sugar().Fatalf("push worker failed to start: %v", err)
		}
	}()
}
