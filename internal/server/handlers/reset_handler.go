package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/service/auth"
	"github.com/mamadbah2/satisfaction/internal/service/reset"
)

// ResetHandler exposes the two reset confirmation steps.
type ResetHandler struct {
	svc    *reset.Service
	logger *zap.Logger
}

// NewResetHandler constructs the HTTP handler adapter.
func NewResetHandler(svc *reset.Service, logger *zap.Logger) *ResetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResetHandler{svc: svc, logger: logger}
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type resetConfirmRequest struct {
	Token   string `json:"token" binding:"required"`
	Confirm bool   `json:"confirm"`
}

// Request is the first confirmation step.
func (h *ResetHandler) Request(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	identity := c.MustGet(identityKey).(auth.Identity)
	ticket, err := h.svc.Request(identity.SessionID, req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Confirm is the second step; on success the caller's cache is emptied.
func (h *ResetHandler) Confirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	identity := c.MustGet(identityKey).(auth.Identity)
	if err := h.svc.Confirm(c.Request.Context(), identity.SessionID, req.Token, req.Confirm); err != nil {
		respondError(c, err)
		return
	}

	session := currentSession(c)
	session.Clear()
	c.JSON(http.StatusOK, session.View())
}
