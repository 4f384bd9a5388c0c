package usecase

import (
	"context"
	"fmt"

	"wefund/domain"
)

type PotInteractor struct{}

func NewPotInteractor() *PotInteractor {
	return &PotInteractor{}
}

// CreatePot is reserved to the owner. Ids come from the pot sequence, starting at 1.
func (interactor *PotInteractor) CreatePot(ctx context.Context, tx *Tx, caller string, targetAddr string, threshold domain.Uint128) (domain.Pot, error) {
	config, err := tx.LoadConfig(ctx)
	if err != nil {
		return domain.Pot{}, err
	}
	if domain.NormalizeIdentity(caller) != config.Owner {
		return domain.Pot{}, domain.ErrorUnauthorized
	}

	target, err := domain.ParseIdentity(targetAddr)
	if err != nil {
		return domain.Pot{}, err
	}

	id, err := tx.NextPotID(ctx)
	if err != nil {
		return domain.Pot{}, err
	}

	pot := domain.Pot{
		ID:         id,
		TargetAddr: target,
		Threshold:  threshold,
		Collected:  domain.Uint128{},
	}
	if err := tx.SavePot(pot); err != nil {
		return domain.Pot{}, err
	}
	return pot, nil
}

func (interactor *PotInteractor) GetPot(ctx context.Context, tx *Tx, id domain.Uint128) (domain.Pot, error) {
	pot, exist, err := tx.LoadPot(ctx, id)
	if err != nil {
		return domain.Pot{}, err
	}
	if !exist {
		return domain.Pot{}, fmt.Errorf("pot %v: %w", id, domain.ErrorNotFound)
	}
	return pot, nil
}
