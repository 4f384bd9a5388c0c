package usecase

import (
	"context"
	"log"

	"wefund/domain"
)

const (
	ContractName    = "wefund:pot-ledger"
	ContractVersion = "0.1.0"
)

type ConfigInteractor struct{}

func NewConfigInteractor() *ConfigInteractor {
	return &ConfigInteractor{}
}

// Initialize stores the configuration and starts the pot sequence at zero. The admin, when given
// and valid, becomes the owner; otherwise the caller does.
func (interactor *ConfigInteractor) Initialize(ctx context.Context, tx *Tx, caller string, admin *string, tokenAddr string) (domain.Config, error) {
	token, err := domain.ParseIdentity(tokenAddr)
	if err != nil {
		return domain.Config{}, err
	}

	owner := domain.NormalizeIdentity(caller)
	if admin != nil {
		if id, err := domain.ParseIdentity(*admin); err == nil {
			owner = id
		} else {
			log.Printf("⚠️ ignoring admin %q - %v\n", *admin, err.Error())
		}
	}

	config := domain.Config{
		Owner:     owner,
		TokenAddr: token,
	}
	if err := tx.SaveConfig(config); err != nil {
		return domain.Config{}, err
	}
	if err := tx.ResetPotSequence(); err != nil {
		return domain.Config{}, err
	}
	if err := tx.SaveContractInfo(domain.ContractInfo{Contract: ContractName, Version: ContractVersion}); err != nil {
		return domain.Config{}, err
	}

	return config, nil
}

func (interactor *ConfigInteractor) GetConfig(ctx context.Context, tx *Tx) (domain.Config, error) {
	return tx.LoadConfig(ctx)
}
