// handlers/auth.go
package handlers

import (
	"net/http"

	"suntrack/middleware"
	"suntrack/utils"

	"github.com/gin-gonic/gin"
)

// SignupHandler handles user registration.
func (h *HandlerBundle) SignupHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	resp, err := h.AuthService.Signup(c.Request.Context(), req.Username, req.Email, req.Password, req.FCMToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SigninHandler authenticates credentials and registers the device.
func (h *HandlerBundle) SigninHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	resp, err := h.AuthService.Signin(c.Request.Context(), req.Email, req.Password, req.FCMToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignoutHandler removes the calling device's token; ending the last
// device also ends the refresh session.
func (h *HandlerBundle) SignoutHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)

	if err := h.AuthService.Signout(c.Request.Context(), userID, fcmToken); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RefreshHandler rotates the token pair. The refresh-token middleware
// has already verified the signature; the service checks the stored hash.
func (h *HandlerBundle) RefreshHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	fcmToken := c.GetString(middleware.ContextFCMToken)
	refreshToken := c.GetString(middleware.ContextRefreshToken)

	pair, err := h.AuthService.Refresh(c.Request.Context(), userID, fcmToken, refreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// AuthLimitsHandler reports credential constraints.
func (h *HandlerBundle) AuthLimitsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.AuthService.GetLimits())
}
