package utils

import (
	"fmt"
	"time"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 20

	PasswordMinLength = 8
	PasswordMaxLength = 128

	LocationNameMinLength = 3
	LocationNameMaxLength = 25

	PublicationTitleMinLength = 3
	PublicationTitleMaxLength = 50

	// MarketplacePaginationLimit caps the page size of publication queries.
	MarketplacePaginationLimit = 20

	// PublicationsCachePrefix namespaces cached publication pages in Redis.
	PublicationsCachePrefix = "publicationsFetch:"
	PublicationsCacheTTL    = time.Hour
)

// Display titles for pushed notifications.
const (
	InactiveDeviceNotificationTitle    = "Inactive device"
	DeviceStateReportNotificationTitle = "Device state report"
	InvitationNotificationTitle        = "Invitation to location"
)

// InvitationNotificationMessage builds the display body of an invitation push.
func InvitationNotificationMessage(locationName, ownerUsername string) string {
	return fmt.Sprintf("%s has invited you to join the location %s", ownerUsername, locationName)
}
