package locationRepo

import (
	"context"

	"suntrack/models"
)

// LocationRepository defines methods for location data access. All
// methods take a context so they participate in a surrounding session
// transaction when called with a session-bound context.
type LocationRepository interface {
	// Create inserts a new location record.
	Create(ctx context.Context, location *models.Location) error
	// Update replaces the mutable fields of an existing location record.
	Update(ctx context.Context, location *models.Location) error
	// Delete removes a location record by its ID and returns the
	// deleted count.
	Delete(ctx context.Context, id string) (int64, error)
	// GetByID retrieves a location by its unique ID, or nil if absent.
	GetByID(ctx context.Context, id string) (*models.Location, error)
	// GetBySerialNumber retrieves the location a device serial is
	// attached to (tracker or weather station), or nil if unattached.
	GetBySerialNumber(ctx context.Context, serialNumber string) (*models.Location, error)
	// GetAllByIDs retrieves the locations with the given IDs.
	GetAllByIDs(ctx context.Context, ids []string) ([]models.Location, error)
	// ShareWith adds a user to the location's sharedWith set and
	// returns the modified count (0 when already present).
	ShareWith(ctx context.Context, userID, locationID string) (int64, error)
}
