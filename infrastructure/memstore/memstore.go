package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wefund/domain"
)

// Store keeps the ledger and its instruction outbox in memory. It backs tests and the demo
// command.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	outbox []domain.OutboxEntry
	nextID int64
}

func New() *Store {
	return &Store{
		data:   make(map[string][]byte),
		outbox: make([]domain.OutboxEntry, 0),
		nextID: 1,
	}
}

var ErrorReadOnly = fmt.Errorf("commit inside a read-only view")

func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key), nil
}

func (s *Store) Commit(ctx context.Context, entries []domain.Entry, instructions []domain.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(entries, instructions)
	return nil
}

// Update runs fn with the store locked, so no other call can read or write in between.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(ctx, lockedView{store: s})
}

// View runs fn against a stable read-only view.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, lockedView{store: s, readOnly: true})
}

// lockedView is handed out while the caller already holds the lock.
type lockedView struct {
	store    *Store
	readOnly bool
}

func (v lockedView) Get(ctx context.Context, key []byte) ([]byte, error) {
	return v.store.get(key), nil
}

func (v lockedView) Commit(ctx context.Context, entries []domain.Entry, instructions []domain.Instruction) error {
	if v.readOnly {
		return ErrorReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v.store.commit(entries, instructions)
	return nil
}

func (s *Store) get(key []byte) []byte {
	value, exist := s.data[string(key)]
	if !exist {
		return nil
	}
	return clone(value)
}

func (s *Store) commit(entries []domain.Entry, instructions []domain.Instruction) {
	for _, entry := range entries {
		s.data[string(entry.Key)] = clone(entry.Value)
	}
	now := time.Now()
	for _, instruction := range instructions {
		s.outbox = append(s.outbox, domain.OutboxEntry{
			ID:          s.nextID,
			Instruction: instruction,
			State:       domain.RequestStateNew,
			CreateTime:  now,
		})
		s.nextID++
	}
}

// Keys lists the stored keys in byte order.
func (s *Store) Keys() [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([][]byte, len(keys))
	for i, k := range keys {
		res[i] = []byte(k)
	}
	return res
}

// Snapshot copies the whole key space.
func (s *Store) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		res[k] = clone(v)
	}
	return res
}

//-------------------------------------------------------------------
// Outbox

func (s *Store) Outbox() []domain.OutboxEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.OutboxEntry, len(s.outbox))
	copy(res, s.outbox)
	return res
}

func (s *Store) FindAllTriable(ctx context.Context, maxRetry int) ([]domain.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.OutboxEntry, 0)
	for _, entry := range s.outbox {
		triable := entry.State == domain.RequestStateNew || entry.State == domain.RequestStateRetriable
		if triable && entry.Retried < maxRetry {
			res = append(res, entry)
		}
	}
	return res, nil
}

func (s *Store) FindAllUnconfirmed(ctx context.Context) ([]domain.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.OutboxEntry, 0)
	for _, entry := range s.outbox {
		if entry.State == domain.RequestStateUnconfirmed {
			res = append(res, entry)
		}
	}
	return res, nil
}

func (s *Store) SetState(ctx context.Context, id int64, state string) error {
	return s.update(id, func(entry *domain.OutboxEntry) {
		entry.State = state
	})
}

func (s *Store) SetRetrying(ctx context.Context, id int64, timestamp time.Time) error {
	return s.update(id, func(entry *domain.OutboxEntry) {
		entry.Retried++
		entry.RetryTime = &timestamp
		entry.State = domain.RequestStateOngoing
	})
}

func (s *Store) SetUnconfirmed(ctx context.Context, id int64, seqno uint32) error {
	return s.update(id, func(entry *domain.OutboxEntry) {
		entry.Seqno = &seqno
		entry.State = domain.RequestStateUnconfirmed
	})
}

func (s *Store) SetSent(ctx context.Context, id int64, timestamp time.Time) error {
	return s.update(id, func(entry *domain.OutboxEntry) {
		entry.SentTime = &timestamp
		entry.State = domain.RequestStateSent
	})
}

func (s *Store) update(id int64, fn func(entry *domain.OutboxEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == id {
			fn(&s.outbox[i])
			return nil
		}
	}
	return domain.ErrorNotFound
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	res := make([]byte, len(b))
	copy(res, b)
	return res
}
