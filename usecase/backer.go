package usecase

import (
	"context"
	"fmt"

	"wefund/domain"
)

type BackerInteractor struct{}

func NewBackerInteractor() *BackerInteractor {
	return &BackerInteractor{}
}

// BackProject records the attached funds as a contribution of backer and forwards them to the
// project wallet.
func (interactor *BackerInteractor) BackProject(ctx context.Context, tx *Tx, info domain.MessageInfo, projectID domain.Uint128, backer string) (domain.ProjectState, domain.Instruction, error) {
	if info.Funds.IsZero() {
		return domain.ProjectState{}, domain.Instruction{}, domain.ErrorUnauthorized
	}

	project, exist, err := tx.LoadProject(ctx, projectID)
	if err != nil {
		return domain.ProjectState{}, domain.Instruction{}, err
	}
	if !exist {
		return domain.ProjectState{}, domain.Instruction{}, fmt.Errorf("project %v: %w", projectID, domain.ErrorNotRegistered)
	}

	project.Collected, err = project.Collected.CheckedAdd(info.Funds)
	if err != nil {
		return domain.ProjectState{}, domain.Instruction{}, fmt.Errorf("project %v: %w", projectID, err)
	}
	project.Backers = append(project.Backers, domain.BackerState{
		Backer: backer,
		Amount: info.Funds,
	})
	if err := tx.SaveProject(project); err != nil {
		return domain.ProjectState{}, domain.Instruction{}, err
	}

	return project, domain.NewNativeTransfer(project.ProjectWallet, info.Funds), nil
}
