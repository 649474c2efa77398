// Package auth verifies the single admin account and tracks its signed-in
// sessions. Sessions are HS256 tokens whose id must still be registered.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed, expired or revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// State is the authentication state reported to subscribers.
type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticated   State = "authenticated"
)

// Change describes one transition of a session.
type Change struct {
	SessionID string
	Email     string
	State     State
}

// Handler receives auth state changes.
type Handler func(ctx context.Context, change Change)

// Identity is the verified owner of a token.
type Identity struct {
	SessionID string
	Email     string
	ExpiresAt time.Time
}

// Credentials configures the admin account.
type Credentials struct {
	Email        string
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
}

// Service implements sign-in, sign-out and token verification.
type Service struct {
	creds    Credentials
	now      func() time.Time
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]Identity
	handlers []Handler
}

// NewService builds an auth service for the given admin credentials.
func NewService(creds Credentials, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if creds.TTL <= 0 {
		creds.TTL = 12 * time.Hour
	}
	return &Service{
		creds:    creds,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]Identity),
	}
}

// OnAuthStateChange registers handler for every future state change.
func (s *Service) OnAuthStateChange(handler Handler) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// SignIn checks the credentials and returns a signed session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, Identity, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.creds.Email) {
		return "", Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("admin sign-in rejected", zap.String("email", email))
		return "", Identity{}, ErrInvalidCredentials
	}

	now := s.now()
	identity := Identity{
		SessionID: uuid.NewString(),
		Email:     s.creds.Email,
		ExpiresAt: now.Add(s.creds.TTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        identity.SessionID,
		Subject:   identity.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
	})
	signed, err := token.SignedString(s.creds.Secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[identity.SessionID] = identity
	s.mu.Unlock()

	s.logger.Info("admin signed in", zap.String("session", identity.SessionID))
	s.notify(ctx, Change{SessionID: identity.SessionID, Email: identity.Email, State: Authenticated})
	return signed, identity, nil
}

// SignOut revokes the session. Unknown sessions are ignored.
func (s *Service) SignOut(ctx context.Context, sessionID string) {
	s.mu.Lock()
	identity, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return
	}
	s.logger.Info("admin signed out", zap.String("session", sessionID))
	s.notify(ctx, Change{SessionID: sessionID, Email: identity.Email, State: Unauthenticated})
}

// Authenticate verifies token and returns the identity of its active session.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.creds.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.SignOut(ctx, claims.ID)
		}
		return Identity{}, ErrInvalidToken
	}

	s.mu.RLock()
	identity, ok := s.sessions[claims.ID]
	s.mu.RUnlock()
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	if !s.now().Before(identity.ExpiresAt) {
		s.SignOut(ctx, identity.SessionID)
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// ActiveSessions returns the number of registered sessions.
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) notify(ctx context.Context, change Change) {
	s.mu.RLock()
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, change)
	}
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
