package usecase

import (
	"context"
	"fmt"

	"wefund/domain"
)

type DepositInteractor struct{}

func NewDepositInteractor() *DepositInteractor {
	return &DepositInteractor{}
}

// ApplyDeposit adds amount to the pot. Only the configured token wallet may report deposits.
//
// Once the pot is funded every deposit, not only the one crossing the threshold, authorizes a
// transfer of the whole collected balance to the target. Collected is never reset.
func (interactor *DepositInteractor) ApplyDeposit(ctx context.Context, tx *Tx, caller string, potID domain.Uint128, amount domain.Uint128) (domain.Pot, []domain.Instruction, error) {
	config, err := tx.LoadConfig(ctx)
	if err != nil {
		return domain.Pot{}, nil, err
	}
	if domain.NormalizeIdentity(caller) != config.TokenAddr {
		return domain.Pot{}, nil, domain.ErrorUnauthorized
	}

	pot, exist, err := tx.LoadPot(ctx, potID)
	if err != nil {
		return domain.Pot{}, nil, err
	}
	if !exist {
		return domain.Pot{}, nil, fmt.Errorf("pot %v: %w", potID, domain.ErrorNotFound)
	}

	pot.Collected, err = pot.Collected.CheckedAdd(amount)
	if err != nil {
		return domain.Pot{}, nil, fmt.Errorf("pot %v: %w", potID, err)
	}
	if err := tx.SavePot(pot); err != nil {
		return domain.Pot{}, nil, err
	}

	instructions := make([]domain.Instruction, 0, 1)
	if pot.IsFunded() {
		instructions = append(instructions, domain.NewTokenTransfer(config.TokenAddr, pot.TargetAddr, pot.Collected))
	}
	return pot, instructions, nil
}
