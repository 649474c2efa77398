package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/satisfaction/internal/repository"
)

// runInTransaction executes fn inside a session transaction. WithTransaction
// retries transient conflicts; anything else aborts with no partial writes.
// Deployments without transaction support are reported as
// repository.ErrTransactionsUnsupported instead of falling back.
func (r *MongoDBRepository) runInTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		if isNotSupported(err) {
			return fmt.Errorf("%w: %v", repository.ErrTransactionsUnsupported, err)
		}
		return err
	}
	return nil
}

// isNotSupported detects standalone servers and other deployments where
// multi-document transactions are unavailable.
//
// Known error codes:
//   - 20: "Transaction numbers are only allowed on a replica set member or mongos"
//   - 51: IllegalOperation
//   - 263: "Cannot run 'aggregate' in a multi-document transaction"
func isNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	keywords := []string{"transaction", "replica set", "session", "not supported", "illegal operation"}

	matches := 0
	for _, kw := range keywords {
		if strings.Contains(errStr, kw) {
			matches++
		}
	}
	// Two keywords avoid matching ordinary errors that mention one of them.
	return matches >= 2
}
