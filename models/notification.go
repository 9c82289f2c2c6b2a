package models

import "time"

// NotificationType discriminates push payloads and stored notifications.
type NotificationType string

const (
	NotificationInactiveDevice     NotificationType = "INACTIVE_DEVICE"
	NotificationDeviceStateReport  NotificationType = "DEVICE_STATE_REPORT"
	NotificationLocationUpdate     NotificationType = "LOCATION_UPDATE"
	NotificationInvitationsUpdate  NotificationType = "INVITATIONS_UPDATE"
	NotificationHwNotificationsUpd NotificationType = "HW_NOTIFICATIONS_UPDATE"
	NotificationInvitation         NotificationType = "INVITATION"
)

// HwNotificationStatus is the lifecycle state of a stored notification.
type HwNotificationStatus string

const (
	HwNotificationActive HwNotificationStatus = "ACTIVE"
	HwNotificationSeen   HwNotificationStatus = "SEEN"
)

// MaxHwNotificationsPerUser bounds the embedded notification list; the
// oldest entry is evicted once the cap is exceeded.
const MaxHwNotificationsPerUser = 10

// HwNotification is an in-app record of a hardware-originated event,
// embedded in the affected user's document.
type HwNotification struct {
	ID               string               `bson:"id" json:"id"`
	NotificationType NotificationType     `bson:"notification_type" json:"notificationType"`
	SerialNumber     string               `bson:"serial_number" json:"serialNumber"`
	DeviceType       string               `bson:"device_type" json:"deviceType"`
	Importance       string               `bson:"importance" json:"importance"`
	Message          string               `bson:"message" json:"message"`
	Advice           string               `bson:"advice,omitempty" json:"advice,omitempty"`
	Timestamp        time.Time            `bson:"timestamp" json:"timestamp"`
	Status           HwNotificationStatus `bson:"status" json:"status"`
}

// AppendBounded appends n to list, evicting the oldest entries so the
// result never exceeds capacity. Used wherever a notification list is
// mutated in memory; the Mongo layer mirrors it with $push/$slice.
func AppendBounded(list []HwNotification, n HwNotification, capacity int) []HwNotification {
	list = append(list, n)
	if len(list) > capacity {
		list = list[len(list)-capacity:]
	}
	return list
}
