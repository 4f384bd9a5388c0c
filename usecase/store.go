package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"wefund/domain"
)

// LedgerStore is the durable key-value store the ledger lives in. Every call runs inside one
// store transaction, so its reads and its writes see the same state even across processes.
type LedgerStore interface {
	// Update runs fn in an isolated read-write transaction. fn may run more than once when the
	// store has to retry, so it must not have side effects outside the view.
	Update(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error
}

// Tx buffers the writes of one call. Reads see the buffered writes first. Nothing reaches the
// store until Commit, so dropping a Tx discards the call.
type Tx struct {
	store        domain.LedgerView
	writes       map[string][]byte
	order        []string
	instructions []domain.Instruction
}

func NewTx(store domain.LedgerView) *Tx {
	return &Tx{
		store:  store,
		writes: make(map[string][]byte),
		order:  make([]string, 0, 4),
	}
}

func (tx *Tx) Get(ctx context.Context, key []byte) ([]byte, error) {
	if value, exist := tx.writes[string(key)]; exist {
		return value, nil
	}
	return tx.store.Get(ctx, key)
}

func (tx *Tx) Set(key []byte, value []byte) {
	k := string(key)
	if _, exist := tx.writes[k]; !exist {
		tx.order = append(tx.order, k)
	}
	tx.writes[k] = value
}

func (tx *Tx) Emit(instruction domain.Instruction) {
	tx.instructions = append(tx.instructions, instruction)
}

func (tx *Tx) Instructions() []domain.Instruction {
	return tx.instructions
}

// Commit hands the buffered writes to the store in the order they were first made.
func (tx *Tx) Commit(ctx context.Context) error {
	if len(tx.order) == 0 && len(tx.instructions) == 0 {
		return nil
	}

	entries := make([]domain.Entry, 0, len(tx.order))
	for _, k := range tx.order {
		entries = append(entries, domain.Entry{Key: []byte(k), Value: tx.writes[k]})
	}
	return tx.store.Commit(ctx, entries, tx.instructions)
}

// load decodes the value under key into v and reports whether it was there.
func (tx *Tx) load(ctx context.Context, key []byte, v interface{}) (bool, error) {
	raw, err := tx.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

func (tx *Tx) save(key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tx.Set(key, raw)
	return nil
}

//-------------------------------------------------------------------
// Typed accessors

func (tx *Tx) LoadConfig(ctx context.Context) (domain.Config, error) {
	var config domain.Config
	exist, err := tx.load(ctx, domain.ConfigKey, &config)
	if err != nil {
		return config, err
	}
	if !exist {
		return config, domain.ErrorNotInitialized
	}
	return config, nil
}

func (tx *Tx) SaveConfig(config domain.Config) error {
	return tx.save(domain.ConfigKey, config)
}

func (tx *Tx) SaveContractInfo(info domain.ContractInfo) error {
	return tx.save(domain.ContractInfoKey, info)
}

// NextPotID increments the pot sequence and returns the new value.
func (tx *Tx) NextPotID(ctx context.Context) (domain.Uint128, error) {
	var seq domain.Uint128
	exist, err := tx.load(ctx, domain.PotSeqKey, &seq)
	if err != nil {
		return seq, err
	}
	if !exist {
		return seq, domain.ErrorNotInitialized
	}

	id, err := seq.CheckedAdd(domain.NewUint128(1))
	if err != nil {
		return id, err
	}
	return id, tx.save(domain.PotSeqKey, id)
}

func (tx *Tx) ResetPotSequence() error {
	return tx.save(domain.PotSeqKey, domain.Uint128{})
}

// LoadPot reports absence through the boolean rather than an error.
func (tx *Tx) LoadPot(ctx context.Context, id domain.Uint128) (domain.Pot, bool, error) {
	var pot domain.Pot
	exist, err := tx.load(ctx, domain.PotKey(id), &pot)
	return pot, exist, err
}

func (tx *Tx) SavePot(pot domain.Pot) error {
	return tx.save(domain.PotKey(pot.ID), pot)
}

func (tx *Tx) LoadProject(ctx context.Context, id domain.Uint128) (domain.ProjectState, bool, error) {
	var project domain.ProjectState
	exist, err := tx.load(ctx, domain.ProjectKey(id), &project)
	return project, exist, err
}

func (tx *Tx) SaveProject(project domain.ProjectState) error {
	return tx.save(domain.ProjectKey(project.ProjectID), project)
}
