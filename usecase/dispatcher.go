package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"wefund/domain"
	"wefund/interface/exporter"
)

// Dispatcher authenticates, validates and routes calls to the interactors. Each call runs in one
// store transaction and either commits all of its writes and instructions or leaves the store
// untouched.
type Dispatcher struct {
	mu    sync.Mutex
	store LedgerStore

	configInteractor  *ConfigInteractor
	potInteractor     *PotInteractor
	depositInteractor *DepositInteractor
	projectInteractor *ProjectInteractor
	backerInteractor  *BackerInteractor
}

func NewDispatcher(store LedgerStore,
	configInteractor *ConfigInteractor,
	potInteractor *PotInteractor,
	depositInteractor *DepositInteractor,
	projectInteractor *ProjectInteractor,
	backerInteractor *BackerInteractor) *Dispatcher {
	return &Dispatcher{
		store:             store,
		configInteractor:  configInteractor,
		potInteractor:     potInteractor,
		depositInteractor: depositInteractor,
		projectInteractor: projectInteractor,
		backerInteractor:  backerInteractor,
	}
}

// NewDefaultDispatcher wires a dispatcher with fresh interactors.
func NewDefaultDispatcher(store LedgerStore) *Dispatcher {
	return NewDispatcher(store,
		NewConfigInteractor(),
		NewPotInteractor(),
		NewDepositInteractor(),
		NewProjectInteractor(),
		NewBackerInteractor())
}

func (d *Dispatcher) Execute(ctx context.Context, info domain.MessageInfo, op domain.Operation) (*domain.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kind := OperationName(op)

	var res *domain.Response
	err := d.store.Update(ctx, func(ctx context.Context, view domain.LedgerView) error {
		tx := NewTx(view)
		var err error
		res, err = d.execute(ctx, tx, info, op)
		if err != nil {
			return err
		}
		for _, instruction := range res.Instructions {
			tx.Emit(instruction)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		exporter.IncErrorCount()
		exporter.IncOperationCount(kind, "error")
		log.Printf("🔴 %v [sender: %v] - %v\n", kind, info.Sender, err.Error())
		return nil, err
	}

	exporter.IncOperationCount(kind, "ok")
	for _, instruction := range res.Instructions {
		exporter.IncInstructionCount(instruction.Kind)
		log.Printf("🔵 %v authorized %v\n", kind, instruction)
	}
	return res, nil
}

func (d *Dispatcher) execute(ctx context.Context, tx *Tx, info domain.MessageInfo, op domain.Operation) (*domain.Response, error) {
	switch msg := op.(type) {

	case domain.Instantiate:
		config, err := d.configInteractor.Initialize(ctx, tx, info.Sender, msg.Admin, msg.TokenAddr)
		if err != nil {
			return nil, err
		}
		res := domain.NewResponse().
			AddAttribute("method", "instantiate").
			AddAttribute("owner", config.Owner).
			AddAttribute("cw20_addr", config.TokenAddr)
		res.Data = config
		return res, nil

	case domain.CreatePot:
		pot, err := d.potInteractor.CreatePot(ctx, tx, info.Sender, msg.TargetAddr, msg.Threshold)
		if err != nil {
			return nil, err
		}
		res := domain.NewResponse().
			AddAttribute("action", "execute_create_pot").
			AddAttribute("pot_id", pot.ID).
			AddAttribute("target_addr", pot.TargetAddr).
			AddAttribute("threshold_amount", pot.Threshold)
		res.Data = pot.ID
		return res, nil

	case domain.Deposit:
		pot, instructions, err := d.depositInteractor.ApplyDeposit(ctx, tx, info.Sender, msg.PotID, msg.Amount)
		if err != nil {
			return nil, err
		}
		res := domain.NewResponse().
			AddAttribute("action", "receive_send").
			AddAttribute("pot_id", pot.ID).
			AddAttribute("collected", pot.Collected).
			AddAttribute("threshold", pot.Threshold)
		for _, instruction := range instructions {
			res.AddInstruction(instruction)
		}
		res.Data = pot
		return res, nil

	case domain.AddProject:
		project, err := d.projectInteractor.AddProject(ctx, tx, msg)
		if err != nil {
			return nil, err
		}
		res := domain.NewResponse().
			AddAttribute("action", "add_project").
			AddAttribute("project_id", project.ProjectID)
		res.Data = project.ProjectID
		return res, nil

	case domain.BackProject:
		project, instruction, err := d.backerInteractor.BackProject(ctx, tx, info, msg.ProjectID, msg.Backer)
		if err != nil {
			return nil, err
		}
		res := domain.NewResponse().
			AddAttribute("action", "back_project").
			AddAttribute("project_id", project.ProjectID).
			AddAttribute("backer_wallet", msg.Backer).
			AddAttribute("amount", info.Funds).
			AddInstruction(instruction)
		res.Data = project.Collected
		return res, nil
	}

	return nil, fmt.Errorf("%w: %T", domain.ErrorUnknownOperation, op)
}

// Query runs a read-only call. Its result is a value copy of the stored entity.
func (d *Dispatcher) Query(ctx context.Context, q domain.Query) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result interface{}
	err := d.store.View(ctx, func(ctx context.Context, view domain.LedgerView) error {
		var err error
		result, err = d.query(ctx, NewTx(view), q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) query(ctx context.Context, tx *Tx, q domain.Query) (interface{}, error) {
	switch msg := q.(type) {
	case domain.GetPot:
		return d.potInteractor.GetPot(ctx, tx, msg.ID)
	case domain.GetProject:
		return d.projectInteractor.GetProject(ctx, tx, msg.ID)
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrorUnknownOperation, q)
}

// Config returns the stored configuration, or ErrorNotInitialized.
func (d *Dispatcher) Config(ctx context.Context) (domain.Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var config domain.Config
	err := d.store.View(ctx, func(ctx context.Context, view domain.LedgerView) error {
		var err error
		config, err = d.configInteractor.GetConfig(ctx, NewTx(view))
		return err
	})
	return config, err
}

func OperationName(op domain.Operation) string {
	switch op.(type) {
	case domain.Instantiate:
		return "instantiate"
	case domain.CreatePot:
		return "create_pot"
	case domain.Deposit:
		return "deposit"
	case domain.AddProject:
		return "add_project"
	case domain.BackProject:
		return "back_project"
	}
	return "unknown"
}
