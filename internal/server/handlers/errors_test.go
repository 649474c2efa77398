package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/service/auth"
	"github.com/mamadbah2/satisfaction/internal/service/period"
	"github.com/mamadbah2/satisfaction/internal/service/reset"
	"github.com/mamadbah2/satisfaction/internal/service/voting"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{voting.ErrInvalidMood, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", voting.ErrCooldownActive), http.StatusTooManyRequests},
		{period.ErrInvalidFilter, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{reset.ErrConfirmationMismatch, http.StatusBadRequest},
		{reset.ErrConfirmationPending, http.StatusConflict},
		{reset.ErrResetInProgress, http.StatusConflict},
		{fmt.Errorf("record vote: %w", repository.ErrTransactionsUnsupported), http.StatusServiceUnavailable},
		{errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer ":      "",
		"":             "",
	}
	for header, want := range tests {
		if got := bearerToken(header); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
