package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wefund/domain"
	"wefund/infrastructure/memstore"
)

// Two dispatchers over one store behave like two CLI processes over one database.
func newSharedLedger(t *testing.T) (*Dispatcher, *Dispatcher, *memstore.Store) {
	t.Helper()
	d1, store := newLedger(t)
	return d1, NewDefaultDispatcher(store), store
}

func TestExecute_SharedStoreIssuesUniqueIDs(t *testing.T) {
	d1, d2, _ := newSharedLedger(t)
	const perDispatcher = 25

	var wg sync.WaitGroup
	ids := make(chan domain.Uint128, 2*perDispatcher)
	for _, d := range []*Dispatcher{d1, d2} {
		wg.Add(1)
		go func(d *Dispatcher) {
			defer wg.Done()
			for i := 0; i < perDispatcher; i++ {
				res, err := d.Execute(context.Background(), domain.MessageInfo{Sender: owner}, domain.CreatePot{TargetAddr: recipient, Threshold: amount(10)})
				if assert.NoError(t, err) {
					ids <- res.Data.(domain.Uint128)
				}
			}
		}(d)
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.Uint128]bool)
	for id := range ids {
		assert.False(t, seen[id], "pot id %v issued twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 2*perDispatcher)
	for i := uint64(1); i <= 2*perDispatcher; i++ {
		assert.True(t, seen[amount(i)], "pot id %v never issued", i)
	}
}

func TestExecute_SharedStoreKeepsEveryDeposit(t *testing.T) {
	d1, d2, _ := newSharedLedger(t)
	potID := createPot(t, d1, 1000)
	const perDispatcher = 25

	var wg sync.WaitGroup
	for _, d := range []*Dispatcher{d1, d2} {
		wg.Add(1)
		go func(d *Dispatcher) {
			defer wg.Done()
			for i := 0; i < perDispatcher; i++ {
				_, err := deposit(d, potID, 1)
				assert.NoError(t, err)
			}
		}(d)
	}
	wg.Wait()

	assert.Equal(t, amount(2*perDispatcher), getPot(t, d2, potID).Collected)
}

var errConflict = errors.New("could not serialize access")

// conflictingStore fails the first commit after letting a competing call commit first, the way a
// serializable database aborts a transaction that raced another one.
type conflictingStore struct {
	*memstore.Store
	competitor func()
	conflicted bool
}

type conflictingView struct {
	domain.LedgerView
	competitor func()
}

func (v conflictingView) Commit(ctx context.Context, entries []domain.Entry, instructions []domain.Instruction) error {
	v.competitor()
	return errConflict
}

func (s *conflictingStore) Update(ctx context.Context, fn func(ctx context.Context, view domain.LedgerView) error) error {
	if !s.conflicted {
		s.conflicted = true
		err := fn(ctx, conflictingView{LedgerView: s.Store, competitor: s.competitor})
		if !errors.Is(err, errConflict) {
			return err
		}
	}
	return s.Store.Update(ctx, fn)
}

func TestExecute_RetryRereadsState(t *testing.T) {
	ctx := context.Background()
	d, store := newLedger(t)
	competitor := NewDefaultDispatcher(store)

	var competitorID domain.Uint128
	conflicting := &conflictingStore{Store: store}
	conflicting.competitor = func() {
		res, err := competitor.Execute(ctx, domain.MessageInfo{Sender: owner}, domain.CreatePot{TargetAddr: stranger, Threshold: amount(5)})
		require.NoError(t, err)
		competitorID = res.Data.(domain.Uint128)
	}
	d.store = conflicting

	res, err := d.Execute(ctx, domain.MessageInfo{Sender: owner}, domain.CreatePot{TargetAddr: recipient, Threshold: amount(10)})
	require.NoError(t, err)

	assert.Equal(t, amount(1), competitorID)
	assert.Equal(t, amount(2), res.Data.(domain.Uint128))

	// neither pot overwrote the other
	assert.Equal(t, domain.Identity(stranger), getPot(t, competitor, amount(1)).TargetAddr)
	assert.Equal(t, domain.Identity(recipient), getPot(t, competitor, amount(2)).TargetAddr)
}
