// handlers/user.go
package handlers

import (
	"net/http"

	"suntrack/middleware"
	"suntrack/services/location"
	"suntrack/services/user"
	"suntrack/utils"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler returns the caller's assembled profile.
func (h *HandlerBundle) GetProfileHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	view, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddLocationHandler creates a location owned by the caller.
func (h *HandlerBundle) AddLocationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	var req location.AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	view, err := h.UserService.AddNewLocation(c.Request.Context(), userID, fcmToken, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// RemoveLocationHandler deletes a location owned by the caller.
func (h *HandlerBundle) RemoveLocationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)
	locationID := c.Param("id")

	if err := h.UserService.RemoveLocation(c.Request.Context(), userID, fcmToken, locationID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InviteUserHandler invites another user to one of the caller's locations.
func (h *HandlerBundle) InviteUserHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req user.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	if err := h.UserService.InviteUserToLocation(c.Request.Context(), userID, req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RespondToInvitationHandler consumes a pending invitation.
func (h *HandlerBundle) RespondToInvitationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)
	invitationID := c.Param("id")

	var req user.RespondToInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	if err := h.UserService.RespondToInvitation(c.Request.Context(), userID, fcmToken, invitationID, *req.Accepted); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendInactiveDevicesHandler is the webhook ingress for inactive-device
// events from the hardware telemetry side.
func (h *HandlerBundle) SendInactiveDevicesHandler(c *gin.Context) {
	var req user.SendHwNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	if err := h.UserService.SendInactiveDevicesNotification(c.Request.Context(), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendDeviceStateReportsHandler is the webhook ingress for device state
// reports.
func (h *HandlerBundle) SendDeviceStateReportsHandler(c *gin.Context) {
	var req user.SendHwNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	if err := h.UserService.SendDeviceStateReportNotification(c.Request.Context(), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateHwNotificationStatusHandler mutates a stored notification's status.
func (h *HandlerBundle) UpdateHwNotificationStatusHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	notificationID := c.Param("id")

	var req user.UpdateHwNotificationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	if err := h.UserService.UpdateHwNotificationStatus(c.Request.Context(), userID, notificationID, req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteHwNotificationHandler removes a stored notification.
func (h *HandlerBundle) DeleteHwNotificationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	notificationID := c.Param("id")

	if err := h.UserService.DeleteHwNotification(c.Request.Context(), userID, notificationID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
