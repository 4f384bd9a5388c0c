package domain

import "context"

// LedgerView is the ledger as seen from inside one store transaction.
type LedgerView interface {
	// Get returns nil without error when the key is absent.
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Commit applies all entries and records all instructions, or nothing at all.
	Commit(ctx context.Context, entries []Entry, instructions []Instruction) error
}
