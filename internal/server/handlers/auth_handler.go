package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/service/auth"
	"github.com/mamadbah2/satisfaction/internal/service/dashboard"
)

const (
	identityKey = "identity"
	sessionKey  = "dashboard_session"
)

// AuthHandler signs the admin in and out and guards the admin routes.
type AuthHandler struct {
	auth      *auth.Service
	dashboard *dashboard.Manager
	logger    *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(authSvc *auth.Service, manager *dashboard.Manager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authSvc, dashboard: manager, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, identity, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"token":     token,
		"expiresAt": identity.ExpiresAt,
		"loaded":    false,
	}
	if session, ok := h.dashboard.Session(identity.SessionID); ok {
		resp["loaded"] = session.Loaded()
		if err := session.LoadError(); err != nil {
			_, message := statusFor(err)
			resp["error"] = message
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := c.MustGet(identityKey).(auth.Identity)
	h.auth.SignOut(c.Request.Context(), identity.SessionID)
	c.Status(http.StatusNoContent)
}

// RequireSession rejects requests without an active admin token and exposes
// the caller's dashboard session to the next handlers.
func (h *AuthHandler) RequireSession(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	identity, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		status, message := statusFor(err)
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}

	session, ok := h.dashboard.Session(identity.SessionID)
	if !ok {
		h.logger.Warn("authenticated token without dashboard session", zap.String("session", identity.SessionID))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please sign in again"})
		return
	}

	c.Set(identityKey, identity)
	c.Set(sessionKey, session)
	c.Next()
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentSession(c *gin.Context) *dashboard.Session {
	return c.MustGet(sessionKey).(*dashboard.Session)
}
