// middleware/auth.go
package middleware

import (
	"strings"

	"suntrack/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID       = "userID"
	ContextFCMToken     = "fcmToken"
	ContextRefreshToken = "refreshToken"
)

// AccessTokenAuth validates the bearer access token and stores the
// caller's user ID and device token in the request context.
func AccessTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, utils.CodeInvalidAccessToken, "missing or invalid Authorization header")
			return
		}

		userID, fcmToken, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, utils.CodeInvalidAccessToken, "invalid access token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextFCMToken, fcmToken)
		c.Next()
	}
}

// RefreshTokenAuth validates the bearer refresh token signature and
// stores the caller's identity plus the presented token; the service
// layer checks the token against the stored hash.
func RefreshTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, utils.CodeInvalidRefreshToken, "missing or invalid Authorization header")
			return
		}

		userID, fcmToken, err := utils.ValidateRefreshToken(tokenString)
		if err != nil {
			abortUnauthorized(c, utils.CodeInvalidRefreshToken, "invalid refresh token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextFCMToken, fcmToken)
		c.Set(ContextRefreshToken, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func abortUnauthorized(c *gin.Context, code int, message string) {
	err := utils.NewUnauthorized(code, message)
	c.AbortWithStatusJSON(err.Status, err)
}
