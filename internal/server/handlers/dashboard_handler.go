package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/service/dashboard"
	"github.com/mamadbah2/satisfaction/internal/service/period"
)

// DashboardHandler serves the admin dashboard views.
type DashboardHandler struct {
	manager *dashboard.Manager
	logger  *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(manager *dashboard.Manager, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{manager: manager, logger: logger}
}

// View renders the dashboard from the session cache.
func (h *DashboardHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).View())
}

// Reload refetches every record and renders the dashboard. A failed fetch
// keeps the previous cache.
func (h *DashboardHandler) Reload(c *gin.Context) {
	session := currentSession(c)
	if err := h.manager.Reload(c.Request.Context(), session); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// Filter applies a period filter.
func (h *DashboardHandler) Filter(c *gin.Context) {
	var filter period.Filter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload"})
		return
	}

	view, err := currentSession(c).ApplyFilter(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Page moves through the history table. action is next, prev or goto; goto
// takes a one-based page number.
func (h *DashboardHandler) Page(c *gin.Context) {
	session := currentSession(c)

	switch c.Query("action") {
	case "":
		c.JSON(http.StatusOK, session.Page())
	case "next":
		c.JSON(http.StatusOK, session.NextPage())
	case "prev":
		c.JSON(http.StatusOK, session.PrevPage())
	case "goto":
		number, err := strconv.Atoi(c.Query("page"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a number"})
			return
		}
		c.JSON(http.StatusOK, session.GoToPage(number-1))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be next, prev or goto"})
	}
}

// Compare summarizes two days side by side.
func (h *DashboardHandler) Compare(c *gin.Context) {
	comparison, err := currentSession(c).Compare(c.Query("first"), c.Query("second"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}
