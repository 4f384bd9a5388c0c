package usecase

import (
	"context"
	"log"
	"time"

	"github.com/tonkeeper/tongo"

	"wefund/domain"
	"wefund/interface/exporter"
)

// Messages the driver wallet signs are only valid for a few minutes; once that window has passed
// an unconfirmed message that did not land never will.
const defaultExpireAfter = 5 * time.Minute

type VerifyInteractor struct {
	outboxRepository OutboxRepository
	seqnoSource      SeqnoSource
	driverAddress    tongo.AccountID

	ExpireAfter time.Duration
}

func NewVerifyInteractor(outboxRepository OutboxRepository,
	seqnoSource SeqnoSource,
	driverAddress tongo.AccountID) *VerifyInteractor {
	interactor := &VerifyInteractor{
		outboxRepository: outboxRepository,
		seqnoSource:      seqnoSource,
		driverAddress:    driverAddress,
		ExpireAfter:      defaultExpireAfter,
	}
	return interactor
}

// Verify settles unconfirmed instructions against the driver wallet and returns how many are
// still undecided. An instruction whose seqno was consumed has landed and is marked sent; one
// whose seqno is still current after ExpireAfter did not, and becomes retriable.
func (interactor *VerifyInteractor) Verify(ctx context.Context) (int, error) {
	entries, err := interactor.outboxRepository.FindAllUnconfirmed(ctx)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 loading unconfirmed instructions - %v\n", err.Error())
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	seqno, err := interactor.seqnoSource.GetSeqno(ctx, interactor.driverAddress)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 verifying - getting current driver's seqno - %v\n", err.Error())
		return len(entries), err
	}

	pending := 0
	for _, entry := range entries {
		log.Printf("verifying instruction [id: %v]\n", entry.ID)

		sentAt := entry.CreateTime
		if entry.RetryTime != nil {
			sentAt = *entry.RetryTime
		}

		switch {
		case entry.Seqno != nil && seqno > *entry.Seqno:
			err = interactor.outboxRepository.SetSent(ctx, entry.ID, time.Now())
			if err == nil {
				exporter.IncRelayCount(domain.RequestStateSent)
				log.Printf("instruction verified [id: %v] %v\n", entry.ID, entry.Instruction)
			}

		case time.Since(sentAt) > interactor.ExpireAfter:
			err = interactor.outboxRepository.SetState(ctx, entry.ID, domain.RequestStateRetriable)
			if err == nil {
				exporter.IncRelayCount(domain.RequestStateRetriable)
				log.Printf("🟡 instruction expired without landing, will retry [id: %v]\n", entry.ID)
			}

		default:
			pending++
			continue
		}

		if err != nil {
			exporter.IncErrorCount()
			log.Printf("🔴 verifying instruction [id: %v] - %v\n", entry.ID, err.Error())
			pending++
		}
	}

	return pending, nil
}
