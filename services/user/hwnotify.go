package user

import (
	"context"

	"suntrack/models"
	"suntrack/services/notification"
	"suntrack/utils"

	"github.com/google/uuid"
)

// broadcastHwNotification resolves every user observing the device,
// appends the notification to each of their bounded lists in one
// transaction and, after commit, pushes it once per distinct device
// token. An unknown serial number is a silent no-op so hardware-side
// retries stay cheap.
func (s *DefaultUserService) broadcastHwNotification(ctx context.Context, req SendHwNotificationRequest, notificationType models.NotificationType, title string) error {
	var users []models.User

	hwNotification := models.HwNotification{
		ID:               uuid.New().String(),
		NotificationType: notificationType,
		SerialNumber:     req.SerialNumber,
		DeviceType:       req.DeviceType,
		Importance:       req.Importance,
		Message:          req.Message,
		Advice:           req.Advice,
		Timestamp:        req.Timestamp,
		Status:           models.HwNotificationActive,
	}

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.Repo.FindUsersWithDevice(ctx, req.SerialNumber)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}

		for _, u := range users {
			modified, err := s.Repo.AddHwNotification(ctx, u.ID, hwNotification)
			if err != nil {
				return err
			}
			if modified == 0 {
				return utils.NewInternal("failed to store hardware notification")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	tokens := make([]string, 0)
	for _, u := range users {
		tokens = append(tokens, u.FCMTokens...)
	}

	s.pushToTokens(ctx, tokens, "",
		notification.Payload{
			NotificationType: notificationType,
			Body:             hwNotification,
		},
		&notification.Display{
			Title: title,
			Body:  req.Message,
		})
	return nil
}

// SendInactiveDevicesNotification broadcasts an inactive-device event.
func (s *DefaultUserService) SendInactiveDevicesNotification(ctx context.Context, req SendHwNotificationRequest) error {
	return s.broadcastHwNotification(ctx, req, models.NotificationInactiveDevice, utils.InactiveDeviceNotificationTitle)
}

// SendDeviceStateReportNotification broadcasts a device state report.
func (s *DefaultUserService) SendDeviceStateReportNotification(ctx context.Context, req SendHwNotificationRequest) error {
	return s.broadcastHwNotification(ctx, req, models.NotificationDeviceStateReport, utils.DeviceStateReportNotificationTitle)
}

// UpdateHwNotificationStatus mutates a stored notification's status.
func (s *DefaultUserService) UpdateHwNotificationStatus(ctx context.Context, userID, notificationID string, status models.HwNotificationStatus) error {
	modified, err := s.Repo.UpdateHwNotificationStatus(ctx, userID, notificationID, status)
	if err != nil {
		return err
	}
	if modified == 0 {
		return utils.NewInternal("failed to update hardware notification")
	}
	return nil
}

// DeleteHwNotification removes a stored notification.
func (s *DefaultUserService) DeleteHwNotification(ctx context.Context, userID, notificationID string) error {
	modified, err := s.Repo.DeleteHwNotification(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if modified == 0 {
		return utils.NewInternal("failed to delete hardware notification")
	}
	return nil
}
