package domain

import (
	"fmt"
	"time"
)

const (
	InstructionTokenTransfer  = "token_transfer"
	InstructionNativeTransfer = "native_transfer"
)

// Instruction is a transfer the ledger authorizes; the host executes it.
type Instruction struct {
	Kind      string   `json:"kind"`
	Recipient string   `json:"recipient"`
	Amount    Uint128  `json:"amount"`
	Token     Identity `json:"token,omitempty"`
}

func NewTokenTransfer(token Identity, recipient Identity, amount Uint128) Instruction {
	return Instruction{
		Kind:      InstructionTokenTransfer,
		Recipient: string(recipient),
		Amount:    amount,
		Token:     token,
	}
}

func NewNativeTransfer(recipient string, amount Uint128) Instruction {
	return Instruction{
		Kind:      InstructionNativeTransfer,
		Recipient: recipient,
		Amount:    amount,
	}
}

func (i Instruction) String() string {
	if i.Kind == InstructionTokenTransfer {
		return fmt.Sprintf("transfer %v of token %v to %v", i.Amount, i.Token, i.Recipient)
	}
	return fmt.Sprintf("transfer %v native to %v", i.Amount, i.Recipient)
}

const (
	RequestStateNew         = "new"
	RequestStateOngoing     = "ongoing"
	RequestStateUnconfirmed = "unconfirmed"
	RequestStateSent        = "sent"
	RequestStateRetriable   = "retriable"
	RequestStateError       = "error"
)

// OutboxEntry is a committed instruction waiting to be relayed.
type OutboxEntry struct {
	ID          int64       `json:"id"`
	Instruction Instruction `json:"instruction"`
	State       string      `json:"state"`
	Retried     int         `json:"retried"`
	CreateTime  time.Time   `json:"create_time"`
	RetryTime   *time.Time  `json:"retry_time"`
	SentTime    *time.Time  `json:"sent_time"`

	// Seqno of the driver wallet the message went out with; set once it is unconfirmed.
	Seqno *uint32 `json:"seqno"`
}
