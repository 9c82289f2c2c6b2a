// handlers/location.go
package handlers

import (
	"net/http"

	"suntrack/hwapi"
	"suntrack/middleware"
	"suntrack/utils"

	"github.com/gin-gonic/gin"
)

// LocationLimitsHandler reports location constraints.
func (h *HandlerBundle) LocationLimitsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.LocationService.GetLimits())
}

// ValidateSerialNumberHandler checks a device serial against the
// hardware API and the attachment-uniqueness rule.
func (h *HandlerBundle) ValidateSerialNumberHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	kind := hwapi.DeviceKind(c.Param("kind"))
	serialNumber := c.Param("serial")

	if kind != hwapi.KindSolarTracker && kind != hwapi.KindWeatherStation {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "unknown device kind"))
		return
	}

	result, err := h.LocationService.ValidateSerialNumber(c.Request.Context(), kind, serialNumber, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLocationHandler returns the caller's view of a location.
func (h *HandlerBundle) GetLocationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	locationID := c.Param("id")

	view, err := h.LocationService.GetLocation(c.Request.Context(), userID, locationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetInsightsHandler returns telemetry for every device on a location.
func (h *HandlerBundle) GetInsightsHandler(c *gin.Context) {
	locationID := c.Param("id")

	insights, err := h.LocationService.GetInsights(c.Request.Context(), locationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// AddSolarTrackerHandler attaches a tracker; owner only.
func (h *HandlerBundle) AddSolarTrackerHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	err := h.LocationService.AddSolarTracker(c.Request.Context(), userID, fcmToken, c.Param("id"), c.Param("serial"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveSolarTrackerHandler detaches a tracker; owner only.
func (h *HandlerBundle) RemoveSolarTrackerHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	err := h.LocationService.RemoveSolarTracker(c.Request.Context(), userID, fcmToken, c.Param("id"), c.Param("serial"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddWeatherStationHandler attaches the weather station; owner only.
func (h *HandlerBundle) AddWeatherStationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	err := h.LocationService.AddWeatherStation(c.Request.Context(), userID, fcmToken, c.Param("id"), c.Param("serial"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveWeatherStationHandler detaches the weather station; owner only.
func (h *HandlerBundle) RemoveWeatherStationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	err := h.LocationService.RemoveWeatherStation(c.Request.Context(), userID, fcmToken, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSolarTrackerInsightsHandler returns telemetry for one tracker.
func (h *HandlerBundle) GetSolarTrackerInsightsHandler(c *gin.Context) {
	insights, err := h.LocationService.GetSolarTrackerInsights(c.Request.Context(), c.Param("serial"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// GetWeatherStationInsightsHandler returns telemetry for one station.
func (h *HandlerBundle) GetWeatherStationInsightsHandler(c *gin.Context) {
	insights, err := h.LocationService.GetWeatherStationInsights(c.Request.Context(), c.Param("serial"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}
