// Package dashboard keeps one cached view of the vote records per signed-in
// admin and renders summaries, charts and the paginated history from it.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/service/auth"
)

// Manager creates and discards sessions as admins sign in and out.
type Manager struct {
	store  repository.VoteStore
	loc    *time.Location
	lc     locale.Locale
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager wires a dashboard manager instance.
func NewManager(store repository.VoteStore, loc *time.Location, lc locale.Locale, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		loc:      loc,
		lc:       lc,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// HandleAuthChange is registered with auth.Service.OnAuthStateChange.
func (m *Manager) HandleAuthChange(ctx context.Context, change auth.Change) {
	switch change.State {
	case auth.Authenticated:
		session := NewSession(change.SessionID, m.loc, m.lc, m.logger.With(zap.String("session", change.SessionID)))
		m.mu.Lock()
		m.sessions[change.SessionID] = session
		m.mu.Unlock()

		// A failed initial load leaves an empty session holding the error
		// until the admin reloads.
		_ = session.Load(ctx, m.store)
	case auth.Unauthenticated:
		m.mu.Lock()
		session, ok := m.sessions[change.SessionID]
		delete(m.sessions, change.SessionID)
		m.mu.Unlock()
		if ok {
			session.Close()
		}
	}
}

// Session returns the state of an active session.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Reload refetches the records of one session.
func (m *Manager) Reload(ctx context.Context, session *Session) error {
	return session.Load(ctx, m.store)
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
