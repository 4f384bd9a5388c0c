package repository

import (
	"context"

	"github.com/behrang/sqlbatch"
)

const (
	sqlCreateLedgerTable = `
	create table if not exists ledger_kv (
		key         bytea primary key,
		value       jsonb not null,
		update_time timestamptz not null default now()
	)
`

	sqlCreateInstructionTable = `
	create table if not exists instructions (
		id          bigserial primary key,
		kind        text not null,
		instruction jsonb not null,
		state       text not null default 'new',
		retried     integer not null default 0,
		create_time timestamptz not null default now(),
		retry_time  timestamptz,
		sent_time   timestamptz,
		seqno       bigint
	)
`

	sqlAddInstructionSeqno = `
	alter table instructions add column if not exists seqno bigint
`

	sqlCreateInstructionStateIndex = `
	create index if not exists instructions_state_idx on instructions (state, retried)
`
)

// Migrate creates the ledger and outbox tables when they are missing.
func Migrate(ctx context.Context, db BatchHandler) error {
	_, err := db.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{Query: sqlCreateLedgerTable},
		{Query: sqlCreateInstructionTable},
		{Query: sqlAddInstructionSeqno},
		{Query: sqlCreateInstructionStateIndex},
	})
	return err
}
