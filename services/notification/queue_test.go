package notification

import (
	"context"
	"testing"

	"suntrack/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	token   string
	payload Payload
	display *Display
	calls   int
}

func (r *recordingSender) Send(ctx context.Context, fcmToken string, payload Payload, display *Display) {
	r.calls++
	r.token = fcmToken
	r.payload = payload
	r.display = display
}

func TestPushTaskRoundTrip(t *testing.T) {
	task, err := NewPushTask("device-1",
		Payload{
			NotificationType: models.NotificationLocationUpdate,
			Body:             map[string]string{"locationId": "loc1"},
		},
		&Display{Title: "Inactive device", Body: "Check the power supply"})
	require.NoError(t, err)
	assert.Equal(t, TypePushSend, task.Type())

	sender := &recordingSender{}
	err = PushTaskHandler(sender)(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "device-1", sender.token)
	assert.Equal(t, models.NotificationLocationUpdate, sender.payload.NotificationType)
	body, ok := sender.payload.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "loc1", body["locationId"])
	require.NotNil(t, sender.display)
	assert.Equal(t, "Inactive device", sender.display.Title)
}

func TestPushTaskWithoutDisplayStaysSilent(t *testing.T) {
	task, err := NewPushTask("device-1",
		Payload{NotificationType: models.NotificationInvitationsUpdate, Body: map[string]string{"invitationId": "inv-1"}},
		nil)
	require.NoError(t, err)

	sender := &recordingSender{}
	require.NoError(t, PushTaskHandler(sender)(context.Background(), task))
	assert.Nil(t, sender.display)
}

func TestPushTaskHandlerRejectsCorruptPayload(t *testing.T) {
	sender := &recordingSender{}
	err := PushTaskHandler(sender)(context.Background(), asynq.NewTask(TypePushSend, []byte("{not json")))
	require.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestDisplayJSONRoundTrip(t *testing.T) {
	task, err := NewPushTask("device-1",
		Payload{NotificationType: models.NotificationInvitation, Body: "x"},
		&Display{Title: "Invitation to location", Body: "alice has invited you"})
	require.NoError(t, err)

	sender := &recordingSender{}
	require.NoError(t, PushTaskHandler(sender)(context.Background(), task))
	assert.Equal(t, "alice has invited you", sender.display.Body)
}
