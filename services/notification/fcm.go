package notification

import (
	"context"
	"encoding/json"

	"suntrack/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMSender is the production PushSender backed by Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender wraps an initialized messaging client.
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

// Send delivers the payload to the device token. Any failure, including
// marshalling, is logged and swallowed.
func (s *FCMSender) Send(ctx context.Context, fcmToken string, payload Payload, display *Display) {
	logger := utils.GetLogger()

	body, err := json.Marshal(payload.Body)
	if err != nil {
		logger.Error("push: failed to encode payload body", zap.Error(err))
		return
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Data: map[string]string{
			"notificationType": string(payload.NotificationType),
			"body":             string(body),
		},
	}
	if display != nil {
		msg.Notification = &messaging.Notification{
			Title: display.Title,
			Body:  display.Body,
		}
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		logger.Warn("push: delivery failed",
			zap.String("notificationType", string(payload.NotificationType)),
			zap.Error(err))
	}
}
