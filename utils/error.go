package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Machine-readable error codes carried alongside HTTP status codes.
const (
	CodeGenericBadRequest       = 4000
	CodeTooShortUsername        = 4001
	CodeInvalidEmailFormat      = 4002
	CodeWeakPassword            = 4003
	CodeTooLongLocationName     = 4004
	CodeInvalidSTSerialNumber   = 4005
	CodeInvalidWSSerialNumber   = 4006
	CodeInvalidLocationID       = 4007
	CodeInvalidCredentials      = 4011
	CodeInvalidAccessToken      = 4013
	CodeInvalidRefreshToken     = 4031
	CodeNotOwner                = 4032
	CodeNotFound                = 4040
	CodeEmailAlreadyUsed        = 4091
	CodeSerialNumberAlreadyUsed = 4092
	CodeLocationAlreadyShared   = 4093
	CodeWeatherStationPresent   = 4094
	CodeInternalError           = 5000
	CodeHwGatewayUnavailable    = 5021
)

// APIError is the service-level error type: an HTTP status, a stable
// machine code, and a human message. Services return these; handlers
// pass them to RespondError unchanged.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewBadRequest(code int, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewUnauthorized(code int, message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func NewForbidden(code int, message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: code, Message: message}
}

func NewNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func NewConflict(code int, message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: code, Message: message}
}

// NewInternal signals a broken invariant, typically a follow-up write
// reporting zero modified documents after its precondition succeeded.
func NewInternal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: message}
}

// NewGatewayUnavailable maps hardware-API transport failures so clients
// can tell a bad request from an unavailable dependency.
func NewGatewayUnavailable(message string) *APIError {
	return &APIError{Status: http.StatusBadGateway, Code: CodeHwGatewayUnavailable, Message: message}
}

// RespondError writes the structured error body for any service error.
// Unrecognized errors become opaque 500s so internals never leak.
func RespondError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			GetLogger().Error(apiErr.Message, zap.Int("code", apiErr.Code), zap.Error(err))
		}
		c.JSON(apiErr.Status, apiErr)
		return
	}

	GetLogger().Error("Unhandled service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred. Please try again later.",
	})
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, &APIError{
					Code:    CodeInternalError,
					Message: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
