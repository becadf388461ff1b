package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediatube/accounts/internal/common"
)

type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// respondServiceError maps a service error onto an HTTP status. Service-level
// sentinels are the only errors that cross this boundary; anything
// unrecognized is reported as a 500 without leaking detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(c, http.StatusBadRequest, "all required fields must be provided")
	case errors.Is(err, common.ErrorInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid user credentials")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		respondError(c, http.StatusUnauthorized, "refresh token expired or reused")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(c, http.StatusConflict, "username or email already taken")
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
