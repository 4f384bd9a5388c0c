package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wefund/domain"
)

func TestStore_GetCommit(t *testing.T) {
	ctx := context.Background()
	store := New()

	value, err := store.Get(ctx, []byte("config"))
	require.NoError(t, err)
	assert.Nil(t, value)

	err = store.Commit(ctx, []domain.Entry{
		{Key: domain.PotKey(domain.NewUint128(2)), Value: []byte(`{"id":"2"}`)},
		{Key: domain.PotKey(domain.NewUint128(1)), Value: []byte(`{"id":"1"}`)},
	}, nil)
	require.NoError(t, err)

	value, err = store.Get(ctx, domain.PotKey(domain.NewUint128(1)))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(value))

	// reads are copies
	value[0] = 'X'
	again, _ := store.Get(ctx, domain.PotKey(domain.NewUint128(1)))
	assert.Equal(t, `{"id":"1"}`, string(again))

	keys := store.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, domain.PotKey(domain.NewUint128(1)), keys[0])
}

func TestStore_CommitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := New()
	err := store.Commit(ctx, []domain.Entry{{Key: []byte("k"), Value: []byte("v")}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Snapshot())
}

func TestStore_Outbox(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer("a", domain.NewUint128(1)),
		domain.NewNativeTransfer("b", domain.NewUint128(2)),
	})
	require.NoError(t, err)

	entries, err := store.FindAllTriable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, domain.RequestStateNew, entries[0].State)

	require.NoError(t, store.SetRetrying(ctx, 1, time.Now()))
	require.NoError(t, store.SetSent(ctx, 1, time.Now()))
	require.NoError(t, store.SetRetrying(ctx, 2, time.Now()))
	require.NoError(t, store.SetState(ctx, 2, domain.RequestStateRetriable))

	// entry 2 already used its only retry
	entries, err = store.FindAllTriable(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = store.FindAllTriable(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)

	assert.ErrorIs(t, store.SetState(ctx, 99, domain.RequestStateSent), domain.ErrorNotFound)
}

func TestStore_UpdateView(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Update(ctx, func(ctx context.Context, view domain.LedgerView) error {
		value, err := view.Get(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Nil(t, value)
		return view.Commit(ctx, []domain.Entry{{Key: []byte("k"), Value: []byte("v")}}, nil)
	})
	require.NoError(t, err)

	err = store.View(ctx, func(ctx context.Context, view domain.LedgerView) error {
		value, err := view.Get(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), value)
		return view.Commit(ctx, []domain.Entry{{Key: []byte("k"), Value: []byte("w")}}, nil)
	})
	assert.ErrorIs(t, err, ErrorReadOnly)

	value, _ := store.Get(ctx, []byte("k"))
	assert.Equal(t, []byte("v"), value)
}

func TestStore_Unconfirmed(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer("a", domain.NewUint128(1)),
	}))

	require.NoError(t, store.SetRetrying(ctx, 1, time.Now()))
	require.NoError(t, store.SetUnconfirmed(ctx, 1, 7))

	// unconfirmed entries are never picked up for sending
	entries, err := store.FindAllTriable(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = store.FindAllUnconfirmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Seqno)
	assert.Equal(t, uint32(7), *entries[0].Seqno)
}
