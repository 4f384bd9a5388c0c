package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/behrang/sqlbatch"

	"wefund/domain"
)

// ledgerLockKey is the advisory lock every ledger writer takes, "wefu" in ascii.
const ledgerLockKey = int64(0x77656675)

const (
	sqlLedgerLock = `
	select pg_advisory_xact_lock($1)
`

	sqlLedgerUpsert = `
	insert into ledger_kv as c (
			key, value, update_time
		)
		values (
			$1, $2::jsonb, now()
		)
	on conflict (key) do
		update set
			value = $2::jsonb, update_time = now()
`

	sqlLedgerFind = `
	select
		key, value
	from ledger_kv
	where key = $1
`
)

// LedgerRepository is the Postgres ledger store. Values are JSON documents.
type LedgerRepository struct {
	batchHandler BatchHandler
}

func NewLedgerRepository(db BatchHandler) *LedgerRepository {
	return &LedgerRepository{batchHandler: db}
}

func readEntry(scan func(...interface{}) error) (interface{}, error) {
	r := domain.Entry{}
	err := scan(
		&r.Key, &r.Value,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Update runs fn in one serializable transaction holding the ledger lock, so concurrent writers,
// in this process or another, are applied one after the other. Serialization failures rerun fn.
func (repo *LedgerRepository) Update(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error {
	return repo.batchHandler.Transact(ctx, &BatchOptionSerializable, func(batch func([]sqlbatch.Command) ([]interface{}, error)) error {
		_, err := batch([]sqlbatch.Command{
			{
				Query: sqlLedgerLock,
				Args:  []interface{}{ledgerLockKey},
			},
		})
		if err != nil {
			return err
		}
		return fn(ctx, &ledgerView{batch: batch})
	})
}

func (repo *LedgerRepository) View(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error {
	return repo.batchHandler.Transact(ctx, &BatchOptionNormalReadOnly, func(batch func([]sqlbatch.Command) ([]interface{}, error)) error {
		return fn(ctx, &ledgerView{batch: batch})
	})
}

// ledgerView reads and writes through a single open transaction.
type ledgerView struct {
	batch func([]sqlbatch.Command) ([]interface{}, error)
}

func (view *ledgerView) Get(ctx context.Context, key []byte) ([]byte, error) {
	results, err := view.batch([]sqlbatch.Command{
		{
			Query:   sqlLedgerFind,
			Args:    []interface{}{key},
			ReadOne: readEntry,
		},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, _ := results[0].(*domain.Entry)
	if result == nil {
		return nil, nil
	}
	return result.Value, nil
}

// Commit writes all entries and queues all instructions.
func (view *ledgerView) Commit(ctx context.Context, entries []domain.Entry, instructions []domain.Instruction) error {
	commands := make([]sqlbatch.Command, 0, len(entries)+len(instructions))
	for _, entry := range entries {
		commands = append(commands, sqlbatch.Command{
			Query: sqlLedgerUpsert,
			Args: []interface{}{
				entry.Key, string(entry.Value),
			},
			Affect: 1,
		})
	}
	for _, instruction := range instructions {
		command, err := insertInstructionCommand(instruction)
		if err != nil {
			return err
		}
		commands = append(commands, command)
	}
	if len(commands) == 0 {
		return nil
	}

	_, err := view.batch(commands)
	return err
}
