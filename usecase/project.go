package usecase

import (
	"context"
	"fmt"

	"wefund/domain"
)

type ProjectInteractor struct{}

func NewProjectInteractor() *ProjectInteractor {
	return &ProjectInteractor{}
}

// AddProject registers a project once per id. Registration is open to any caller.
func (interactor *ProjectInteractor) AddProject(ctx context.Context, tx *Tx, msg domain.AddProject) (domain.ProjectState, error) {
	_, exist, err := tx.LoadProject(ctx, msg.ProjectID)
	if err != nil {
		return domain.ProjectState{}, err
	}
	if exist {
		return domain.ProjectState{}, fmt.Errorf("project %v: %w", msg.ProjectID, domain.ErrorAlreadyRegistered)
	}

	project := domain.ProjectState{
		ProjectID:     msg.ProjectID,
		ProjectWallet: msg.ProjectWallet,
		Name:          msg.Name,
		CreatorWallet: msg.CreatorWallet,
		Website:       msg.Website,
		About:         msg.About,
		Email:         msg.Email,
		Ecosystem:     msg.Ecosystem,
		Category:      msg.Category,
		Collected:     domain.Uint128{},
		Backers:       make([]domain.BackerState, 0),
	}
	if err := tx.SaveProject(project); err != nil {
		return domain.ProjectState{}, err
	}
	return project, nil
}

func (interactor *ProjectInteractor) GetProject(ctx context.Context, tx *Tx, id domain.Uint128) (domain.ProjectState, error) {
	project, exist, err := tx.LoadProject(ctx, id)
	if err != nil {
		return domain.ProjectState{}, err
	}
	if !exist {
		return domain.ProjectState{}, fmt.Errorf("project %v: %w", id, domain.ErrorNotFound)
	}
	return project, nil
}
