package model

import (
	"fmt"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
	tgwallet "github.com/tonkeeper/tongo/wallet"

	"wefund/domain"
)

const (
	OpcodeJettonTransfer = uint32(0x0f8a7ea5)
)

var (
	ErrorUnknownInstruction = fmt.Errorf("unknown instruction kind")
	ErrorAmountTooLarge     = fmt.Errorf("amount does not fit into a message")
)

// MessageBuilder turns ledger instructions into messages the driver wallet can send.
type MessageBuilder struct {
	// Ton attached to a jetton transfer to pay for its processing.
	JettonTransferFee uint64
	// Where the jetton wallet returns the excess of the fee. Nil means nowhere.
	ResponseAddr *tongo.AccountID
}

func NewMessageBuilder(jettonTransferFee uint64, responseAddr *tongo.AccountID) *MessageBuilder {
	return &MessageBuilder{
		JettonTransferFee: jettonTransferFee,
		ResponseAddr:      responseAddr,
	}
}

func (b *MessageBuilder) MakeMessage(instruction domain.Instruction, queryId uint64) (tgwallet.Message, error) {
	switch instruction.Kind {
	case domain.InstructionTokenTransfer:
		return b.makeJettonTransfer(instruction, queryId)
	case domain.InstructionNativeTransfer:
		return b.makeNativeTransfer(instruction)
	}
	return tgwallet.Message{}, fmt.Errorf("%w: %q", ErrorUnknownInstruction, instruction.Kind)
}

// The ledger's own jetton wallet is asked to move the tokens, see TEP-74 transfer.
func (b *MessageBuilder) makeJettonTransfer(instruction domain.Instruction, queryId uint64) (tgwallet.Message, error) {
	jettonWallet, err := instruction.Token.AccountID()
	if err != nil {
		return tgwallet.Message{}, err
	}
	recipient, err := domain.ParseIdentity(instruction.Recipient)
	if err != nil {
		return tgwallet.Message{}, err
	}
	dest, err := recipient.AccountID()
	if err != nil {
		return tgwallet.Message{}, err
	}

	cell := boc.NewCell()
	cell.WriteUint(uint64(OpcodeJettonTransfer), 32) // opcode
	cell.WriteUint(queryId, 64)                       // query id
	if err := writeCoins(cell, instruction.Amount); err != nil {
		return tgwallet.Message{}, err
	}
	writeAddress(cell, &dest)          // destination
	writeAddress(cell, b.ResponseAddr) // response destination
	cell.WriteUint(0, 1)               // no custom payload
	cell.WriteUint(0, 4)               // forward ton amount = 0
	cell.WriteUint(0, 1)               // empty forward payload

	msg := tgwallet.Message{
		Amount:  tlb.Grams(b.JettonTransferFee),
		Address: jettonWallet,
		Body:    cell,
		Code:    nil,
		Data:    nil,
		Bounce:  true,
		Mode:    0,
	}
	return msg, nil
}

func (b *MessageBuilder) makeNativeTransfer(instruction domain.Instruction) (tgwallet.Message, error) {
	recipient, err := domain.ParseIdentity(instruction.Recipient)
	if err != nil {
		return tgwallet.Message{}, err
	}
	accid, err := recipient.AccountID()
	if err != nil {
		return tgwallet.Message{}, err
	}
	if !instruction.Amount.IsUint64() {
		return tgwallet.Message{}, ErrorAmountTooLarge
	}

	msg := tgwallet.Message{
		Amount:  tlb.Grams(instruction.Amount.Lo),
		Address: accid,
		Body:    nil,
		Code:    nil,
		Data:    nil,
		Bounce:  false,
		Mode:    1, // pay fees separately
	}
	return msg, nil
}

// writeCoins stores a VarUInteger 16: a 4-bit byte length followed by the big-endian value.
func writeCoins(cell *boc.Cell, amount domain.Uint128) error {
	raw := amount.Big().Bytes()
	if len(raw) > 15 {
		return ErrorAmountTooLarge
	}
	cell.WriteUint(uint64(len(raw)), 4)
	for _, v := range raw {
		cell.WriteUint(uint64(v), 8)
	}
	return nil
}

// writeAddress stores addr_std, or addr_none for a nil account.
func writeAddress(cell *boc.Cell, accid *tongo.AccountID) {
	if accid == nil {
		cell.WriteUint(0, 2)
		return
	}
	cell.WriteUint(2, 2) // addr_std$10
	cell.WriteUint(0, 1) // no anycast
	cell.WriteUint(uint64(uint8(int8(accid.Workchain))), 8)
	for _, v := range accid.Address {
		cell.WriteUint(uint64(v), 8)
	}
}
