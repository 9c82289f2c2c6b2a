package user

import (
	"context"
	"time"

	"suntrack/database"
	locationRepo "suntrack/database/repository/location"
	userRepo "suntrack/database/repository/user"
	"suntrack/models"
	"suntrack/services/location"
	"suntrack/services/notification"
)

// SendInvitationRequest is the payload for inviting a user to a location.
type SendInvitationRequest struct {
	LocationID       string `json:"locationId" binding:"required"`
	InvitedUserEmail string `json:"invitedUserEmail" binding:"required,email"`
}

// RespondToInvitationRequest carries the accept/decline decision.
// Accepted is a pointer so a missing field is distinguishable from an
// explicit decline.
type RespondToInvitationRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// SendHwNotificationRequest is the webhook payload describing a
// hardware event to broadcast.
type SendHwNotificationRequest struct {
	SerialNumber string    `json:"serialNumber" binding:"required"`
	DeviceType   string    `json:"deviceType" binding:"required"`
	Importance   string    `json:"importance" binding:"required"`
	Message      string    `json:"message" binding:"required"`
	Advice       string    `json:"advice"`
	Timestamp    time.Time `json:"timestamp" binding:"required"`
}

// UpdateHwNotificationStatusRequest mutates a stored notification's status.
type UpdateHwNotificationStatusRequest struct {
	Status models.HwNotificationStatus `json:"status" binding:"required,oneof=ACTIVE SEEN"`
}

// View is the full profile assembled for the owning user: public
// fields plus locations resolved to per-requester views, stored
// hardware notifications newest first and pending invitations.
type View struct {
	ID              string                  `json:"id"`
	Username        string                  `json:"username"`
	Email           string                  `json:"email"`
	Locations       []location.View         `json:"locations"`
	HwNotifications []models.HwNotification `json:"hwNotifications"`
	Invitations     []models.Invitation     `json:"invitations"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// UserService orchestrates the user aggregate: profile assembly,
// location attachment and removal, the invitation lifecycle and
// hardware-event broadcast. Multi-document mutations run inside a
// single transaction; pushes go out only after commit.
type UserService interface {
	// GetProfile assembles the user view.
	GetProfile(ctx context.Context, userID string) (*View, error)
	// AddNewLocation creates a location and links it to the user in
	// one transaction, then notifies the user's other devices.
	AddNewLocation(ctx context.Context, userID, currFCMToken string, req location.AddLocationRequest) (*location.View, error)
	// RemoveLocation deletes a location and unlinks it from every
	// member in one transaction; owner only.
	RemoveLocation(ctx context.Context, userID, currFCMToken, locationID string) error
	// InviteUserToLocation records a pending invitation on the invited
	// user and pushes it to their devices; owner only. Inviting a user
	// who already holds a pending invitation for the location is a
	// silent no-op.
	InviteUserToLocation(ctx context.Context, userID string, req SendInvitationRequest) error
	// RespondToInvitation consumes the invitation; on accept it also
	// shares the location and links it, all in one transaction.
	RespondToInvitation(ctx context.Context, userID, currFCMToken, invitationID string, accepted bool) error
	// SendInactiveDevicesNotification broadcasts an inactive-device
	// event to every user observing the device.
	SendInactiveDevicesNotification(ctx context.Context, req SendHwNotificationRequest) error
	// SendDeviceStateReportNotification broadcasts a state report.
	SendDeviceStateReportNotification(ctx context.Context, req SendHwNotificationRequest) error
	// UpdateHwNotificationStatus mutates a stored notification's status.
	UpdateHwNotificationStatus(ctx context.Context, userID, notificationID string, status models.HwNotificationStatus) error
	// DeleteHwNotification removes a stored notification.
	DeleteHwNotification(ctx context.Context, userID, notificationID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo         userRepo.UserRepository
	LocationRepo locationRepo.LocationRepository
	LocationSvc  location.LocationService
	Push         notification.PushSender
	Txn          database.TxnRunner
}
