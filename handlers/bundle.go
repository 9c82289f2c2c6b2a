// handlers/bundle.go
package handlers

import (
	"suntrack/services/auth"
	"suntrack/services/location"
	"suntrack/services/marketplace"
	"suntrack/services/user"
)

// HandlerBundle groups the endpoint handlers and the services they
// dispatch to.
type HandlerBundle struct {
	AuthService        auth.AuthService
	UserService        user.UserService
	LocationService    location.LocationService
	MarketplaceService marketplace.MarketplaceService
}
