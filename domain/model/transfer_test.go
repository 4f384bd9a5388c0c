package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"

	"wefund/domain"
)

func account(n int) string {
	return fmt.Sprintf("0:%064x", n)
}

func TestMakeMessage_JettonTransfer(t *testing.T) {
	builder := NewMessageBuilder(50000000, nil)
	instruction := domain.NewTokenTransfer(domain.Identity(account(7)), domain.Identity(account(9)), domain.NewUint128(110))

	msg, err := builder.MakeMessage(instruction, 1)
	require.NoError(t, err)

	jettonWallet, err := tongo.AccountIDFromRaw(account(7))
	require.NoError(t, err)
	assert.Equal(t, jettonWallet, msg.Address)
	assert.Equal(t, tlb.Grams(50000000), msg.Amount)
	assert.True(t, msg.Bounce)
	require.NotNil(t, msg.Body)
	// opcode + query id + coins(1 byte) + addr_std + addr_none + 3 flag/coin bits
	assert.Equal(t, 32+64+12+267+2+1+4+1, msg.Body.BitSize())
}

func TestMakeMessage_NativeTransfer(t *testing.T) {
	builder := NewMessageBuilder(50000000, nil)
	instruction := domain.NewNativeTransfer(account(3), domain.NewUint128(1500))

	msg, err := builder.MakeMessage(instruction, 1)
	require.NoError(t, err)

	recipient, err := tongo.AccountIDFromRaw(account(3))
	require.NoError(t, err)
	assert.Equal(t, recipient, msg.Address)
	assert.Equal(t, tlb.Grams(1500), msg.Amount)
	assert.False(t, msg.Bounce)
	assert.Nil(t, msg.Body)
}

func TestMakeMessage_InvalidRecipient(t *testing.T) {
	builder := NewMessageBuilder(50000000, nil)

	_, err := builder.MakeMessage(domain.NewNativeTransfer("some", domain.NewUint128(1)), 1)
	assert.ErrorIs(t, err, domain.ErrorInvalidAddress)
}

func TestMakeMessage_AmountTooLarge(t *testing.T) {
	builder := NewMessageBuilder(50000000, nil)

	native := domain.NewNativeTransfer(account(3), domain.Uint128{Hi: 1})
	_, err := builder.MakeMessage(native, 1)
	assert.ErrorIs(t, err, ErrorAmountTooLarge)

	token := domain.NewTokenTransfer(domain.Identity(account(7)), domain.Identity(account(9)), domain.Uint128{Hi: 1 << 63})
	_, err = builder.MakeMessage(token, 1)
	assert.ErrorIs(t, err, ErrorAmountTooLarge)
}

func TestMakeMessage_UnknownKind(t *testing.T) {
	builder := NewMessageBuilder(50000000, nil)

	_, err := builder.MakeMessage(domain.Instruction{Kind: "burn"}, 1)
	assert.ErrorIs(t, err, ErrorUnknownInstruction)
}
