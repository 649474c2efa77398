// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/repository/sqlite"
)

// MemoryStore is an in-memory VoteStore with switchable failures.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.VoteRecord
	counter int64

	ListErr     error
	AllocateErr error
	ResetErr    error

	// ResetStarted, when set, receives a value as Reset begins and Reset then
	// waits for ResetRelease to be closed.
	ResetStarted chan struct{}
	ResetRelease chan struct{}

	// ListStarted and ListRelease hold ListVotes the same way.
	ListStarted chan struct{}
	ListRelease chan struct{}
}

// NewMemoryStore returns a store holding records. The counter starts at the
// highest id found.
func NewMemoryStore(records ...models.VoteRecord) *MemoryStore {
	s := &MemoryStore{records: append([]models.VoteRecord(nil), records...)}
	for _, r := range records {
		if r.ID > s.counter {
			s.counter = r.ID
		}
	}
	return s
}

func (s *MemoryStore) ListVotes(ctx context.Context) ([]models.VoteRecord, error) {
	if s.ListStarted != nil {
		s.ListStarted <- struct{}{}
		select {
		case <-s.ListRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]models.VoteRecord(nil), s.records...), nil
}

func (s *MemoryStore) AllocateVote(_ context.Context, record models.VoteRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AllocateErr != nil {
		return 0, s.AllocateErr
	}
	s.counter++
	record.ID = s.counter
	s.records = append(s.records, record)
	return record.ID, nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	if s.ResetStarted != nil {
		s.ResetStarted <- struct{}{}
		select {
		case <-s.ResetRelease:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ResetErr != nil {
		return s.ResetErr
	}
	s.records = nil
	s.counter = 0
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// Counter returns the current counter value.
func (s *MemoryStore) Counter() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// SQLiteStore opens a migrated SQLite store inside a test temp dir.
func SQLiteStore(t *testing.T) *sqlite.Repository {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "votes.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}
