package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
)

// operatorContext is the cashier and terminal handling a cart
type operatorContext struct {
	cashier  *entity.User
	terminal *entity.TerminalDevice
}

func requireCashier(ctx context.Context, repo repository.OperatorRepository, id uuid.UUID) (*entity.User, error) {
	user, err := repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("cashier user %s", id))
	}
	return user, nil
}

func requireStoreLocation(ctx context.Context, repo repository.OperatorRepository, id uuid.UUID) (*entity.StoreLocation, error) {
	store, err := repo.GetStoreLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("store location %s", id))
	}
	return store, nil
}

func requireTerminal(ctx context.Context, repo repository.OperatorRepository, id uuid.UUID, forUpdate bool) (*entity.TerminalDevice, error) {
	var (
		terminal *entity.TerminalDevice
		err      error
	)
	if forUpdate {
		terminal, err = repo.GetTerminalForUpdate(ctx, id)
	} else {
		terminal, err = repo.GetTerminal(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if terminal == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("terminal device %s", id))
	}
	return terminal, nil
}

// validateActiveHierarchy requires the cashier and the whole terminal →
// store → merchant chain to be active
func validateActiveHierarchy(cashier *entity.User, terminal *entity.TerminalDevice) error {
	store := terminal.StoreLocation
	switch {
	case !cashier.Active:
		return apperror.NewConflictError(fmt.Sprintf("cashier user is inactive: %s", cashier.ID))
	case !terminal.Active:
		return apperror.NewConflictError(fmt.Sprintf("terminal device is inactive: %s", terminal.ID))
	case !store.Active:
		return apperror.NewConflictError(fmt.Sprintf("store location is inactive: %s", store.ID))
	case !store.Merchant.Active:
		return apperror.NewConflictError(fmt.Sprintf("merchant is inactive: %s", store.Merchant.ID))
	}
	return nil
}

func validateStoreAndTerminal(store *entity.StoreLocation, terminal *entity.TerminalDevice) error {
	if terminal.StoreLocationID != store.ID {
		return apperror.NewInvalidError("terminal does not belong to the provided store location")
	}
	return nil
}

// requireOperatorContext checks that the caller is the cashier and terminal
// the cart was opened with. The terminal row stays locked for the rest of
// the unit of work.
func requireOperatorContext(
	ctx context.Context,
	repo repository.OperatorRepository,
	cart *entity.SaleCart,
	cashierUserID, terminalDeviceID uuid.UUID,
) (*operatorContext, error) {
	cashier, err := requireCashier(ctx, repo, cashierUserID)
	if err != nil {
		return nil, err
	}
	terminal, err := requireTerminal(ctx, repo, terminalDeviceID, true)
	if err != nil {
		return nil, err
	}
	if err := validateActiveHierarchy(cashier, terminal); err != nil {
		return nil, err
	}

	if cashier.ID != cart.CashierUserID {
		return nil, apperror.NewConflictError(fmt.Sprintf("cart can only be handled by the assigned cashier user: %s", cart.CashierUserID))
	}
	if terminal.ID != cart.TerminalDeviceID {
		return nil, apperror.NewConflictError(fmt.Sprintf("cart can only be handled by the assigned terminal device: %s", cart.TerminalDeviceID))
	}
	if terminal.StoreLocationID != cart.StoreLocationID {
		return nil, apperror.NewConflictError("terminal does not belong to cart store location")
	}

	return &operatorContext{cashier: cashier, terminal: terminal}, nil
}
