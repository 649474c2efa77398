// Package reset deletes every vote record behind a two-step confirmation.
package reset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/repository"
)

var (
	// ErrConfirmationRequired is returned when a step was not confirmed.
	ErrConfirmationRequired = errors.New("reset must be confirmed")
	// ErrConfirmationMismatch is returned for unknown, expired or foreign tokens.
	ErrConfirmationMismatch = errors.New("reset confirmation does not match")
	// ErrConfirmationPending is returned while another session holds a confirmation.
	ErrConfirmationPending = errors.New("another reset confirmation is pending")
	// ErrResetInProgress is returned while a reset is running.
	ErrResetInProgress = errors.New("reset already in progress")
)

// DefaultTTL bounds how long a confirmation token stays valid.
const DefaultTTL = 2 * time.Minute

// Ticket is handed out by the first step and redeemed by the second.
type Ticket struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type pending struct {
	sessionID string
	ticket    Ticket
}

// Service coordinates the two confirmation steps and the store reset.
type Service struct {
	store  repository.VoteStore
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	pending *pending
	running bool
}

// NewService wires a reset service instance. A non-positive ttl uses DefaultTTL.
func NewService(store repository.VoteStore, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, now: time.Now, logger: logger}
}

// Request is the first step. It issues a confirmation token for sessionID.
func (s *Service) Request(sessionID string, confirm bool) (Ticket, error) {
	if !confirm {
		return Ticket{}, ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return Ticket{}, ErrResetInProgress
	}
	now := s.now()
	if p := s.pending; p != nil && p.sessionID != sessionID && now.Before(p.ticket.ExpiresAt) {
		return Ticket{}, ErrConfirmationPending
	}

	ticket := Ticket{Token: uuid.NewString(), ExpiresAt: now.Add(s.ttl)}
	s.pending = &pending{sessionID: sessionID, ticket: ticket}
	s.logger.Info("reset requested", zap.String("session", sessionID), zap.Time("expires_at", ticket.ExpiresAt))
	return ticket, nil
}

// Confirm is the second step. It deletes every record and zeroes the counter.
// Declining cancels the pending confirmation.
func (s *Service) Confirm(ctx context.Context, sessionID, token string, confirm bool) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrResetInProgress
	}
	p := s.pending
	if p == nil || p.sessionID != sessionID || p.ticket.Token != token {
		s.mu.Unlock()
		return ErrConfirmationMismatch
	}
	s.pending = nil
	if !confirm {
		s.mu.Unlock()
		s.logger.Info("reset cancelled", zap.String("session", sessionID))
		return ErrConfirmationRequired
	}
	if !s.now().Before(p.ticket.ExpiresAt) {
		s.mu.Unlock()
		return ErrConfirmationMismatch
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.store.Reset(ctx); err != nil {
		s.logger.Error("reset failed", zap.String("session", sessionID), zap.Error(err))
		return fmt.Errorf("reset votes: %w", err)
	}
	s.logger.Warn("all votes deleted", zap.String("session", sessionID))
	return nil
}
