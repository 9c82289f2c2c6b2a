package routes

import (
	"net/http"
	"time"

	"suntrack/handlers"
	"suntrack/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the session lifecycle endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignupHandler)
		api.POST("/signin", hb.SigninHandler)
		api.GET("/limits", hb.AuthLimitsHandler)

		api.GET("/refresh", middleware.RefreshTokenAuth(), hb.RefreshHandler)
		api.GET("/signout", middleware.AccessTokenAuth(), hb.SignoutHandler)
	}
}

// RegisterUserRoutes registers profile, sharing and notification endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		// Webhook ingress from the hardware telemetry side; no user session.
		api.POST("/hw-notifications/inactive-devices", hb.SendInactiveDevicesHandler)
		api.POST("/hw-notifications/device-state-reports", hb.SendDeviceStateReportsHandler)

		protected := api.Group("")
		protected.Use(middleware.AccessTokenAuth())
		protected.GET("", hb.GetProfileHandler)
		protected.POST("/locations", hb.AddLocationHandler)
		protected.DELETE("/locations/:id", hb.RemoveLocationHandler)
		protected.POST("/invitations", hb.InviteUserHandler)
		protected.DELETE("/invitations/:id", hb.RespondToInvitationHandler)
		protected.PATCH("/hw-notifications/:id", hb.UpdateHwNotificationStatusHandler)
		protected.DELETE("/hw-notifications/:id", hb.DeleteHwNotificationHandler)
	}
}

// RegisterLocationRoutes registers location and device endpoints.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/locations")
	{
		api.Use(middleware.AccessTokenAuth())
		api.GET("/limits", hb.LocationLimitsHandler)
		api.GET("/validate/:kind/:serial", hb.ValidateSerialNumberHandler)
		api.GET("/:id", hb.GetLocationHandler)
		api.GET("/:id/insights", hb.GetInsightsHandler)
		api.POST("/:id/solar-trackers/:serial", hb.AddSolarTrackerHandler)
		api.DELETE("/:id/solar-trackers/:serial", hb.RemoveSolarTrackerHandler)
		api.POST("/:id/weather-station/:serial", hb.AddWeatherStationHandler)
		api.DELETE("/:id/weather-station", hb.RemoveWeatherStationHandler)
		api.GET("/solar-trackers/:serial/insights", hb.GetSolarTrackerInsightsHandler)
		api.GET("/weather-stations/:serial/insights", hb.GetWeatherStationInsightsHandler)
	}
}

// RegisterMarketplaceRoutes registers publication endpoints.
func RegisterMarketplaceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/marketplace")
	{
		api.Use(middleware.AccessTokenAuth())
		api.GET("/limits", hb.MarketplaceLimitsHandler)
		api.GET("", hb.GetPublicationsHandler)
		api.POST("/products", hb.PostProductHandler)
		api.POST("/services", hb.PostServiceHandler)
		api.DELETE("/:id", hb.DeletePublicationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterLocationRoutes(r, hb)
	RegisterMarketplaceRoutes(r, hb)
	RegisterHealthRoute(r)
}
