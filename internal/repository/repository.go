// Package repository declares the storage collaborator shared by the
// MongoDB and SQLite backends.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
)

const (
	// VotesCollection names the collection (or table) holding vote records.
	VotesCollection = "satisfaction_logs"
	// CountersCollection names the collection (or table) holding id counters.
	CountersCollection = "counters"
	// VoteCounter is the counter document tracking the last vote id.
	VoteCounter = "satisfaction_logs"
)

// ErrTransactionsUnsupported is returned when the backend cannot run the
// atomic counter-and-insert unit.
var ErrTransactionsUnsupported = errors.New("storage does not support transactions")

// VoteStore defines the persistence operations the service needs.
type VoteStore interface {
	// ListVotes returns every stored record in insertion order.
	ListVotes(ctx context.Context) ([]models.VoteRecord, error)
	// AllocateVote increments the counter and inserts record with the new id
	// as one atomic unit. The record's own ID is ignored.
	AllocateVote(ctx context.Context, record models.VoteRecord) (int64, error)
	// Reset deletes every record and sets the counter to zero atomically.
	Reset(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
