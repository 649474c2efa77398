package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/service/voting"
)

// KioskHeader identifies the submitting kiosk for the cooldown.
const KioskHeader = "X-Kiosk-ID"

// VoteHandler accepts mood submissions from the kiosk screen.
type VoteHandler struct {
	svc    *voting.Service
	logger *zap.Logger
}

// NewVoteHandler constructs the HTTP handler adapter.
func NewVoteHandler(svc *voting.Service, logger *zap.Logger) *VoteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoteHandler{svc: svc, logger: logger}
}

type voteRequest struct {
	Mood string `json:"mood" binding:"required"`
}

// Submit records one vote.
func (h *VoteHandler) Submit(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid vote payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "mood is required"})
		return
	}

	kioskID := strings.TrimSpace(c.GetHeader(KioskHeader))
	if kioskID == "" {
		kioskID = c.ClientIP()
	}

	record, err := h.svc.Submit(c.Request.Context(), kioskID, req.Mood)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}
