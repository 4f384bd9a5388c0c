package dbhandler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
)

const (
	serializationFailure = "40001"
	defaultMaxAttempts   = 10
)

var ErrorTooManyConflicts = fmt.Errorf("too many serialization conflicts")

// DBHandler contains a connection to database.
type DBHandler struct {
	DB          *sql.DB
	MaxAttempts int
}

func NewDBHandler(db *sql.DB) DBHandler {
	return DBHandler{DB: db, MaxAttempts: defaultMaxAttempts}
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a serialization failure is received, the whole batch is retried.
func (handler DBHandler) Batch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	attempts := handler.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		results, err := handler.tryBatch(ctx, opts, commands)
		if IsRetryable(err) && ctx.Err() == nil {
			log.Printf("🟡 Retryable Postgres error, retrying: %v", err)
			continue
		}
		return results, err
	}
	return nil, ErrorTooManyConflicts
}

func (handler DBHandler) tryBatch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(ctx, opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}

// Transact opens one transaction and lets fn run any number of batches in it. On a
// serialization failure the transaction is rolled back and fn runs again from scratch, so the
// retried attempt reads fresh state.
func (handler DBHandler) Transact(ctx context.Context, opts *sql.TxOptions, fn func(batch func(commands []sqlbatch.Command) ([]interface{}, error)) error) error {
	attempts := handler.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		err := handler.tryTransact(ctx, opts, fn)
		if IsRetryable(err) && ctx.Err() == nil {
			log.Printf("🟡 Retryable Postgres error, rerunning transaction: %v", err)
			continue
		}
		return err
	}
	return ErrorTooManyConflicts
}

func (handler DBHandler) tryTransact(ctx context.Context, opts *sql.TxOptions, fn func(batch func(commands []sqlbatch.Command) ([]interface{}, error)) error) (err error) {

	tx, err := handler.DB.BeginTx(ctx, opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	err = fn(func(commands []sqlbatch.Command) ([]interface{}, error) {
		return sqlbatch.Batch(tx, commands)
	})

	if err == nil {
		err = tx.Commit()
	}

	return
}

// IsRetryable reports whether err is, or wraps, a Postgres serialization failure.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}
