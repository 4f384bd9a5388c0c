package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/behrang/sqlbatch"

	"wefund/domain"
)

const (
	sqlInstructionInsert = `
	insert into instructions (
			kind, instruction, state, retried, create_time, retry_time, sent_time
		)
		values (
			$1, $2::jsonb, 'new', 0, now(), null, null
		)
`

	sqlInstructionFindAllTriable = `
	select
		id, instruction, state, retried, create_time, retry_time, sent_time, seqno
	from instructions
	where state in ('new', 'retriable') and retried < $1
	order by id
`

	sqlInstructionFindAllUnconfirmed = `
	select
		id, instruction, state, retried, create_time, retry_time, sent_time, seqno
	from instructions
	where state = 'unconfirmed'
	order by id
`

	sqlInstructionSetState = `
	update instructions
		set state = $2
	where id = $1
`

	sqlInstructionSetRetrying = `
	update instructions
		set retried = retried + 1, retry_time = $2, state = 'ongoing'
	where id = $1
`

	sqlInstructionSetUnconfirmed = `
	update instructions
		set seqno = $2, state = 'unconfirmed'
	where id = $1
`

	sqlInstructionSetSent = `
	update instructions
		set sent_time = $2, state = 'sent'
	where id = $1
`
)

// InstructionRepository is the outbox of committed transfer instructions.
type InstructionRepository struct {
	batchHandler BatchHandler
}

func NewInstructionRepository(db BatchHandler) *InstructionRepository {
	return &InstructionRepository{batchHandler: db}
}

func insertInstructionCommand(instruction domain.Instruction) (sqlbatch.Command, error) {
	instructionJson, err := json.Marshal(instruction)
	if err != nil {
		return sqlbatch.Command{}, err
	}
	return sqlbatch.Command{
		Query: sqlInstructionInsert,
		Args: []interface{}{
			instruction.Kind, string(instructionJson),
		},
		Affect: 1,
	}, nil
}

func readAllInstructions(memo interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.OutboxEntry{}
	var instructionJson []byte
	err := scan(
		&r.ID, &instructionJson, &r.State, &r.Retried, &r.CreateTime, &r.RetryTime, &r.SentTime, &r.Seqno,
	)
	if err == nil {
		err = json.Unmarshal(instructionJson, &r.Instruction)
	}

	list := memo.([]domain.OutboxEntry)
	list = append(list, r)
	return list, err
}

func (repo *InstructionRepository) FindAllTriable(ctx context.Context, maxRetry int) ([]domain.OutboxEntry, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlInstructionFindAllTriable,
			Args:    []interface{}{maxRetry},
			Init:    make([]domain.OutboxEntry, 0),
			ReadAll: readAllInstructions,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.OutboxEntry)
	return result, nil
}

func (repo *InstructionRepository) FindAllUnconfirmed(ctx context.Context) ([]domain.OutboxEntry, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlInstructionFindAllUnconfirmed,
			Init:    make([]domain.OutboxEntry, 0),
			ReadAll: readAllInstructions,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.OutboxEntry)
	return result, nil
}

func (repo *InstructionRepository) SetState(ctx context.Context, id int64, state string) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlInstructionSetState,
			Args:   []interface{}{id, state},
			Affect: 1,
		},
	})
	return err
}

func (repo *InstructionRepository) SetRetrying(ctx context.Context, id int64, timestamp time.Time) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlInstructionSetRetrying,
			Args:   []interface{}{id, timestamp},
			Affect: 1,
		},
	})
	return err
}

// SetUnconfirmed records that the message went out with the driver's seqno but was not seen
// landing yet.
func (repo *InstructionRepository) SetUnconfirmed(ctx context.Context, id int64, seqno uint32) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlInstructionSetUnconfirmed,
			Args:   []interface{}{id, int64(seqno)},
			Affect: 1,
		},
	})
	return err
}

func (repo *InstructionRepository) SetSent(ctx context.Context, id int64, timestamp time.Time) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlInstructionSetSent,
			Args:   []interface{}{id, timestamp},
			Affect: 1,
		},
	})
	return err
}
