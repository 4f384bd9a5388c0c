package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
	tgwallet "github.com/tonkeeper/tongo/wallet"

	"wefund/domain"
	"wefund/domain/model"
	"wefund/infrastructure/memstore"
)

// fakeChain bumps the driver's seqno on every accepted message.
type fakeChain struct {
	seqno   uint32
	sent    []tgwallet.Message
	failOn  int
	noBlock bool
}

func (c *fakeChain) Send(ctx context.Context, msg tgwallet.Message) error {
	if c.failOn > 0 && len(c.sent)+1 == c.failOn {
		c.failOn = 0
		return errors.New("liteserver unavailable")
	}
	c.sent = append(c.sent, msg)
	if !c.noBlock {
		c.seqno++
	}
	return nil
}

func (c *fakeChain) GetSeqno(ctx context.Context, account tongo.AccountID) (uint32, error) {
	return c.seqno, nil
}

func newRelay(t *testing.T, store *memstore.Store, chain *fakeChain) *RelayInteractor {
	t.Helper()
	driver, err := tongo.AccountIDFromRaw(account(99))
	require.NoError(t, err)

	verify := NewVerifyInteractor(store, chain, driver)
	relay := NewRelayInteractor(store, verify, model.NewMessageBuilder(50000000, &driver), chain, chain, driver, 3)
	relay.SeqnoTimeout = 50 * time.Millisecond
	relay.PollInterval = time.Millisecond
	return relay
}

func TestRelay_SendsCommittedInstructions(t *testing.T) {
	ctx := context.Background()
	d, store := newLedger(t)
	potID := createPot(t, d, 100)
	_, err := deposit(d, potID, 150)
	require.NoError(t, err)
	_, err = d.Execute(ctx, domain.MessageInfo{Sender: stranger}, testProject(1))
	require.NoError(t, err)
	_, err = d.Execute(ctx, domain.MessageInfo{Sender: stranger, Funds: amount(700)}, domain.BackProject{ProjectID: amount(1), Backer: stranger})
	require.NoError(t, err)

	chain := &fakeChain{}
	sent, err := newRelay(t, store, chain).Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, chain.sent, 2)

	jettonWallet, _ := tongo.AccountIDFromRaw(token)
	assert.Equal(t, jettonWallet, chain.sent[0].Address)
	projectWallet, _ := tongo.AccountIDFromRaw(account(50))
	assert.Equal(t, projectWallet, chain.sent[1].Address)

	for _, entry := range store.Outbox() {
		assert.Equal(t, domain.RequestStateSent, entry.State)
		assert.NotNil(t, entry.SentTime)
	}

	// nothing left to do
	sent, err = newRelay(t, store, chain).Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestRelay_RetriesFailedSend(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer(account(10), amount(1)),
		domain.NewNativeTransfer(account(11), amount(2)),
	}))

	chain := &fakeChain{failOn: 1}
	relay := newRelay(t, store, chain)

	sent, err := relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	outbox := store.Outbox()
	assert.Equal(t, domain.RequestStateRetriable, outbox[0].State)
	assert.Equal(t, domain.RequestStateSent, outbox[1].State)

	sent, err = relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	outbox = store.Outbox()
	assert.Equal(t, domain.RequestStateSent, outbox[0].State)
	assert.Equal(t, 2, outbox[0].Retried)
}

func TestRelay_LateConfirmationIsNotResent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer(account(10), amount(1)),
		domain.NewNativeTransfer(account(11), amount(2)),
	}))

	// the wallet accepts the message but the seqno does not move in time
	chain := &fakeChain{seqno: 4, noBlock: true}
	relay := newRelay(t, store, chain)

	sent, err := relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	require.Len(t, chain.sent, 1)

	outbox := store.Outbox()
	assert.Equal(t, domain.RequestStateUnconfirmed, outbox[0].State)
	require.NotNil(t, outbox[0].Seqno)
	assert.Equal(t, uint32(4), *outbox[0].Seqno)
	// nothing else goes out on the same seqno
	assert.Equal(t, domain.RequestStateNew, outbox[1].State)

	// still unsettled: neither resent nor followed by the next one
	sent, err = relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, chain.sent, 1)

	// the message lands late
	chain.seqno++
	chain.noBlock = false

	sent, err = relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, chain.sent, 2)
	assert.Equal(t, tlb.Grams(2), chain.sent[1].Amount)

	outbox = store.Outbox()
	assert.Equal(t, domain.RequestStateSent, outbox[0].State)
	assert.Equal(t, 1, outbox[0].Retried)
	assert.Equal(t, domain.RequestStateSent, outbox[1].State)
}

func TestRelay_ExpiredUnconfirmedIsRetried(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer(account(10), amount(1)),
	}))

	chain := &fakeChain{noBlock: true}
	relay := newRelay(t, store, chain)
	relay.verifyInteractor.ExpireAfter = time.Millisecond

	_, err := relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStateUnconfirmed, store.Outbox()[0].State)

	// the message never landed and can no longer do so
	time.Sleep(5 * time.Millisecond)
	chain.noBlock = false

	sent, err := relay.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, chain.sent, 2)
	assert.Equal(t, domain.RequestStateSent, store.Outbox()[0].State)
	assert.Equal(t, 2, store.Outbox()[0].Retried)
}

// brokenOutbox cannot record that an instruction is being sent.
type brokenOutbox struct {
	*memstore.Store
}

var errOutbox = errors.New("outbox unavailable")

func (o brokenOutbox) SetRetrying(ctx context.Context, id int64, timestamp time.Time) error {
	return errOutbox
}

func TestRelay_NothingSentWithoutBookkeeping(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer(account(10), amount(1)),
	}))

	chain := &fakeChain{}
	driver, err := tongo.AccountIDFromRaw(account(99))
	require.NoError(t, err)
	outbox := brokenOutbox{store}
	relay := NewRelayInteractor(outbox, NewVerifyInteractor(outbox, chain, driver), model.NewMessageBuilder(50000000, &driver), chain, chain, driver, 3)

	sent, err := relay.Relay(ctx)
	assert.ErrorIs(t, err, errOutbox)
	assert.Equal(t, 0, sent)
	assert.Empty(t, chain.sent)
	assert.Equal(t, domain.RequestStateNew, store.Outbox()[0].State)
}

func TestRelay_UnbuildableInstruction(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Commit(ctx, nil, []domain.Instruction{
		domain.NewNativeTransfer("some", amount(1)),
	}))

	chain := &fakeChain{}
	sent, err := newRelay(t, store, chain).Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, chain.sent)
	assert.Equal(t, domain.RequestStateError, store.Outbox()[0].State)
}
