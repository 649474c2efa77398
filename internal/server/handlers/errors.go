package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/service/auth"
	"github.com/mamadbah2/satisfaction/internal/service/period"
	"github.com/mamadbah2/satisfaction/internal/service/reset"
	"github.com/mamadbah2/satisfaction/internal/service/voting"
)

// statusFor maps service errors to an HTTP status and a user-facing message.
// Anything unrecognized is treated as a storage failure.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, voting.ErrInvalidMood):
		return http.StatusBadRequest, "unknown mood"
	case errors.Is(err, voting.ErrCooldownActive):
		return http.StatusTooManyRequests, "please wait before voting again"
	case errors.Is(err, period.ErrInvalidFilter):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "session expired, please sign in again"
	case errors.Is(err, reset.ErrConfirmationRequired), errors.Is(err, reset.ErrConfirmationMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, reset.ErrConfirmationPending), errors.Is(err, reset.ErrResetInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrTransactionsUnsupported):
		return http.StatusServiceUnavailable, "storage does not support atomic writes"
	default:
		return http.StatusBadGateway, "could not reach the database, please try again"
	}
}

func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	c.JSON(status, gin.H{"error": message})
}
