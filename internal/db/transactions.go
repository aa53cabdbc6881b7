package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/termvault/staking-ledger-service/internal/utils"
)

const (
	defaultMaxAttempts    = 4 // max attempt INCLUDES the first execution
	defaultInitialBackoff = 100 * time.Millisecond
	defaultBackoffFactor  = 2
)

// txWithRetries runs txnFunc inside a mongo session transaction, retrying on
// transient failures (network, timeout, write conflict, aborted transaction)
// with exponential backoff.
func (db *Database) txWithRetries(
	ctx context.Context,
	txnFunc func(sessCtx mongo.SessionContext) (interface{}, error),
) (interface{}, error) {
	var (
		result  interface{}
		err     error
		backoff = defaultInitialBackoff
	)

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		session, sessionErr := db.Client.StartSession()
		if sessionErr != nil {
			return nil, sessionErr
		}

		result, err = session.WithTransaction(ctx, txnFunc)
		session.EndSession(ctx)

		if err != nil {
			if shouldRetry(err) && attempt < defaultMaxAttempts {
				log.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).
					Msg("retryable error in db transaction, backing off")
				utils.Sleep(backoff)
				backoff *= defaultBackoffFactor
				continue
			}
			return nil, err
		}
		break
	}
	return result, nil
}

// Network-related errors, timeouts, write conflicts and aborted transactions
// are transient and worth retrying. Anything else, such as duplicate keys, is
// not.
func shouldRetry(err error) bool {
	if mongo.IsNetworkError(err) {
		return true
	}
	if mongo.IsTimeout(err) {
		return true
	}
	if IsWriteConflictError(err) {
		return true
	}
	if IsTransactionAbortedError(err) {
		return true
	}
	return false
}
