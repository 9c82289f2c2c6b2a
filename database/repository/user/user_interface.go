package userRepo

import (
	"context"

	"suntrack/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access. All methods take
// a context so they participate in a surrounding session transaction
// when called with a session-bound context.
//
// Update methods that target a single document return the modified
// count; zero after a successful precondition signals a broken
// invariant and must be surfaced by the caller.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update replaces the mutable fields of an existing user record.
	Update(ctx context.Context, user *models.User) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	// GetByID retrieves a user by its unique ID, or nil if absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email, or nil if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by ID with a projection.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	// GetByEmailWithProjection retrieves a user by email with a projection.
	GetByEmailWithProjection(ctx context.Context, email string, projection bson.M) (*models.User, error)

	// AddFCMToken registers a device token (set union).
	AddFCMToken(ctx context.Context, userID, fcmToken string) (int64, error)
	// RemoveFCMToken removes exactly one device token (set difference).
	RemoveFCMToken(ctx context.Context, userID, fcmToken string) (int64, error)
	// SetRefreshTokenHash replaces the stored refresh-token hash; an
	// empty hash clears it, invalidating the session.
	SetRefreshTokenHash(ctx context.Context, userID, hash string) (int64, error)

	// AddLocation links a location to the user (set union).
	AddLocation(ctx context.Context, userID, locationID string) (int64, error)
	// RemoveLocation unlinks a location from the user.
	RemoveLocation(ctx context.Context, userID, locationID string) (int64, error)
	// RemoveLocationFromAll unlinks a location from every given user.
	RemoveLocationFromAll(ctx context.Context, userIDs []string, locationID string) (int64, error)

	// AddInvitation appends a pending invitation.
	AddInvitation(ctx context.Context, userID string, invitation models.Invitation) (int64, error)
	// RemoveInvitation removes a pending invitation by its ID.
	RemoveInvitation(ctx context.Context, userID, invitationID string) (int64, error)

	// AddHwNotification appends a notification to the user's bounded
	// list, evicting the oldest entry beyond the cap.
	AddHwNotification(ctx context.Context, userID string, notification models.HwNotification) (int64, error)
	// UpdateHwNotificationStatus mutates the status of a stored notification.
	UpdateHwNotificationStatus(ctx context.Context, userID, notificationID string, status models.HwNotificationStatus) (int64, error)
	// DeleteHwNotification removes a stored notification.
	DeleteHwNotification(ctx context.Context, userID, notificationID string) (int64, error)

	// FindUsersWithDevice returns every user whose locations reference
	// the given device serial number (tracker or weather station).
	FindUsersWithDevice(ctx context.Context, serialNumber string) ([]models.User, error)
}
