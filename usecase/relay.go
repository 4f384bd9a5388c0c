package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tonkeeper/tongo"
	tgwallet "github.com/tonkeeper/tongo/wallet"

	"wefund/domain"
	"wefund/domain/model"
	"wefund/interface/exporter"
)

var ErrorTimeOut = fmt.Errorf("timeout for new seqno")

// OutboxRepository keeps committed instructions until they are relayed.
type OutboxRepository interface {
	FindAllTriable(ctx context.Context, maxRetry int) ([]domain.OutboxEntry, error)
	FindAllUnconfirmed(ctx context.Context) ([]domain.OutboxEntry, error)
	SetState(ctx context.Context, id int64, state string) error
	SetRetrying(ctx context.Context, id int64, timestamp time.Time) error
	SetUnconfirmed(ctx context.Context, id int64, seqno uint32) error
	SetSent(ctx context.Context, id int64, timestamp time.Time) error
}

// Sender sends one message from the driver wallet.
type Sender interface {
	Send(ctx context.Context, msg tgwallet.Message) error
}

type SenderFunc func(ctx context.Context, msg tgwallet.Message) error

func (f SenderFunc) Send(ctx context.Context, msg tgwallet.Message) error {
	return f(ctx, msg)
}

// SeqnoSource reports the seqno of a wallet. liteapi.Client satisfies it.
type SeqnoSource interface {
	GetSeqno(ctx context.Context, account tongo.AccountID) (uint32, error)
}

type RelayInteractor struct {
	outboxRepository OutboxRepository
	verifyInteractor *VerifyInteractor
	messageBuilder   *model.MessageBuilder
	sender           Sender
	seqnoSource      SeqnoSource
	driverAddress    tongo.AccountID
	maxRetry         int

	SeqnoTimeout time.Duration
	PollInterval time.Duration
}

func NewRelayInteractor(outboxRepository OutboxRepository,
	verifyInteractor *VerifyInteractor,
	messageBuilder *model.MessageBuilder,
	sender Sender,
	seqnoSource SeqnoSource,
	driverAddress tongo.AccountID,
	maxRetry int) *RelayInteractor {
	interactor := &RelayInteractor{
		outboxRepository: outboxRepository,
		verifyInteractor: verifyInteractor,
		messageBuilder:   messageBuilder,
		sender:           sender,
		seqnoSource:      seqnoSource,
		driverAddress:    driverAddress,
		maxRetry:         maxRetry,
		SeqnoTimeout:     30 * time.Second,
		PollInterval:     500 * time.Millisecond,
	}
	return interactor
}

// Relay sends every triable instruction, one at a time, and returns how many were sent. Nothing
// is sent while an earlier message is unconfirmed, since its seqno would be reused. A message
// whose seqno does not advance in time is left unconfirmed for the verifier instead of being
// sent again.
func (interactor *RelayInteractor) Relay(ctx context.Context) (int, error) {
	pending, err := interactor.verifyInteractor.Verify(ctx)
	if err != nil {
		return 0, err
	}
	if pending > 0 {
		log.Printf("🟡 %v instruction(s) still unconfirmed, relaying is postponed\n", pending)
		return 0, nil
	}

	entries, err := interactor.outboxRepository.FindAllTriable(ctx, interactor.maxRetry)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 loading outbox - %v\n", err.Error())
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	seqno, err := interactor.seqnoSource.GetSeqno(ctx, interactor.driverAddress)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 getting current driver's seqno - %v\n", err.Error())
		return 0, err
	}

	sent := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		err = interactor.outboxRepository.SetRetrying(ctx, entry.ID, time.Now())
		if err != nil {
			exporter.IncErrorCount()
			log.Printf("🔴 marking instruction as ongoing [id: %v] - %v\n", entry.ID, err.Error())
			return sent, err
		}

		msg, err := interactor.messageBuilder.MakeMessage(entry.Instruction, uint64(entry.ID))
		if err != nil {
			// A message that cannot be built will never be, so it is not retried.
			exporter.IncErrorCount()
			exporter.IncRelayCount(domain.RequestStateError)
			log.Printf("🔴 building message [instruction: %v] - %v\n", entry.ID, err.Error())
			interactor.setState(ctx, entry.ID, domain.RequestStateError)
			continue
		}

		err = interactor.sender.Send(ctx, msg)
		if err != nil {
			exporter.IncErrorCount()
			exporter.IncRelayCount(domain.RequestStateRetriable)
			log.Printf("🔴 sending message [instruction: %v] - %v\n", entry.ID, err.Error())
			interactor.setState(ctx, entry.ID, domain.RequestStateRetriable)
			continue
		}

		nextSeqno, err := interactor.waitForNextSeqno(ctx, seqno)
		if err != nil {
			exporter.IncRelayCount(domain.RequestStateUnconfirmed)
			log.Printf("🟡 message is not confirmed [instruction: %v] - %v\n", entry.ID, err.Error())
			err = interactor.outboxRepository.SetUnconfirmed(ctx, entry.ID, seqno)
			if err != nil {
				// Left as ongoing, which is never picked up again.
				exporter.IncErrorCount()
				log.Printf("🔴 marking instruction as unconfirmed [id: %v] - %v\n", entry.ID, err.Error())
			}
			return sent, nil
		}
		seqno = nextSeqno

		exporter.IncRelayCount(domain.RequestStateSent)
		err = interactor.outboxRepository.SetSent(ctx, entry.ID, time.Now())
		if err != nil {
			exporter.IncErrorCount()
			log.Printf("🔴 marking instruction as sent [id: %v] - %v\n", entry.ID, err.Error())
		}
		log.Printf("instruction sent [id: %v] %v\n", entry.ID, entry.Instruction)
		sent++
	}

	return sent, nil
}

func (interactor *RelayInteractor) setState(ctx context.Context, id int64, state string) {
	err := interactor.outboxRepository.SetState(ctx, id, state)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 setting instruction state [id: %v, state: %v] - %v\n", id, state, err.Error())
	}
}

func (interactor *RelayInteractor) waitForNextSeqno(ctx context.Context, seqno uint32) (uint32, error) {
	deadline := time.Now().Add(interactor.SeqnoTimeout)
	for time.Now().Before(deadline) {
		currSeqno, err := interactor.seqnoSource.GetSeqno(ctx, interactor.driverAddress)
		if err != nil {
			log.Printf("🔴 getting current driver's seqno - %v\n", err.Error())
		}

		if err == nil && currSeqno > seqno {
			return currSeqno, nil
		}

		select {
		case <-ctx.Done():
			return seqno, ctx.Err()
		case <-time.After(interactor.PollInterval):
		}
	}

	return seqno, ErrorTimeOut
}
