package location

import (
	"context"

	"suntrack/database"
	locationRepo "suntrack/database/repository/location"
	userRepo "suntrack/database/repository/user"
	"suntrack/hwapi"
	"suntrack/models"
	"suntrack/services/notification"
)

// AddLocationRequest is the payload for creating a location.
type AddLocationRequest struct {
	Name                      string   `json:"name" binding:"required"`
	SolarTrackerSerialNumbers []string `json:"solarTrackerSerialNumbers" binding:"required,min=1"`
	WeatherStation            string   `json:"weatherStation"`
	CCTV                      string   `json:"cctv"`
}

// ValidateSerialResult reports whether a serial identifies a real,
// unattached device. IsAdded is only meaningful when IsUsed is true and
// tells the requester the device already sits on a location shared with
// them.
type ValidateSerialResult struct {
	IsValid      bool                 `json:"isValid"`
	IsUsed       bool                 `json:"isUsed,omitempty"`
	IsAdded      bool                 `json:"isAdded,omitempty"`
	SolarTracker *models.SolarTracker `json:"solarTracker,omitempty"`
}

// View is the per-requester projection of a location: the requester is
// filtered out of sharedWith and ownership is resolved to a flag.
type View struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Capacity       float64                `json:"capacity"`
	SolarTrackers  []models.SolarTracker  `json:"solarTrackers"`
	WeatherStation string                 `json:"weatherStation,omitempty"`
	CCTV           string                 `json:"cctv,omitempty"`
	SharedWith     []models.BriefUserInfo `json:"sharedWith"`
	AmIOwner       bool                   `json:"amIOwner"`
}

// Insights aggregates telemetry for every device attached to a location.
type Insights struct {
	SolarTrackers  map[string]hwapi.SolarTrackerInsights `json:"solarTrackers"`
	WeatherStation *hwapi.WeatherStationInsights         `json:"weatherStation,omitempty"`
}

// Limits describes location constraints for client-side validation.
type Limits struct {
	NameMinLength int `json:"nameMinLength"`
	NameMaxLength int `json:"nameMaxLength"`
}

// LocationService owns location entity creation, device attachment and
// the ownership gate. Mutating operations notify every member device
// except the acting one.
type LocationService interface {
	// GetLocation returns the requester's view of a location.
	GetLocation(ctx context.Context, userID, locationID string) (*View, error)
	// MapToView projects a location for the given requester.
	MapToView(ctx context.Context, userID string, loc *models.Location) (*View, error)
	// ValidateSerialNumber checks a serial against the hardware API and
	// the attachment-uniqueness invariant.
	ValidateSerialNumber(ctx context.Context, kind hwapi.DeviceKind, serialNumber, userID string) (*ValidateSerialResult, error)
	// CreateLocation validates every serial and persists a new location
	// owned by the given user, inside the caller's transaction.
	CreateLocation(ctx context.Context, owner *models.User, req AddLocationRequest) (*models.Location, error)
	// AddSolarTracker attaches a tracker; owner only.
	AddSolarTracker(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error
	// RemoveSolarTracker detaches a tracker; owner only.
	RemoveSolarTracker(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error
	// AddWeatherStation attaches the weather station; owner only.
	AddWeatherStation(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error
	// RemoveWeatherStation detaches the weather station; owner only.
	RemoveWeatherStation(ctx context.Context, userID, currFCMToken, locationID string) error
	// Remove deletes the location inside the caller's transaction;
	// owner only. Returns the deleted location.
	Remove(ctx context.Context, userID, locationID string) (*models.Location, error)
	// GetInsights fans out telemetry reads for all attached devices.
	GetInsights(ctx context.Context, locationID string) (*Insights, error)
	// GetSolarTrackerInsights returns telemetry for one tracker.
	GetSolarTrackerInsights(ctx context.Context, serialNumber string) (*hwapi.SolarTrackerInsights, error)
	// GetWeatherStationInsights returns telemetry for one station.
	GetWeatherStationInsights(ctx context.Context, serialNumber string) (*hwapi.WeatherStationInsights, error)
	// NotifyLocationUpdate pushes a location-update to every member
	// device except the acting one.
	NotifyLocationUpdate(ctx context.Context, loc *models.Location, excludeToken string)
	// GetLimits reports location constraints.
	GetLimits() Limits
}

// DefaultLocationService is the production implementation. Txn covers
// the device attach paths, where the serial-uniqueness check and the
// attach must land atomically.
type DefaultLocationService struct {
	Repo     locationRepo.LocationRepository
	UserRepo userRepo.UserRepository
	Hw       hwapi.Gateway
	Push     notification.PushSender
	Txn      database.TxnRunner
}
