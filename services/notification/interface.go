package notification

import (
	"context"

	"suntrack/models"
)

// Display is the optional user-visible part of a push; pushes without
// one are delivered silently as data messages.
type Display struct {
	Title string
	Body  string
}

// Payload is the data part of every push: the notification type plus a
// JSON-serializable body the client dispatches on.
type Payload struct {
	NotificationType models.NotificationType
	Body             interface{}
}

// PushSender delivers a payload to a single device token. Delivery is
// best-effort: failures are logged, never returned, so a dead token can
// never fail the operation that triggered the push.
type PushSender interface {
	Send(ctx context.Context, fcmToken string, payload Payload, display *Display)
}
