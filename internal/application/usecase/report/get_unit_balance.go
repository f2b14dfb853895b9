package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
)

// GetUnitBalanceInput identifies the unit to read.
type GetUnitBalanceInput struct {
	UnitID uuid.UUID
}

// GetUnitBalanceOutput carries the occupant-scoped balance of the unit.
// Negative means the current occupant owes money.
type GetUnitBalanceOutput struct {
	Balance           decimal.Decimal
	HasPendingPayment bool
}

// GetUnitBalanceUseCase reads the net confirmed balance for the unit's
// current occupant. A vacant unit, or one whose occupant just changed,
// reports zero: previous occupants' history never leaks onto the next.
type GetUnitBalanceUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
}

// NewGetUnitBalanceUseCase creates a new GetUnitBalanceUseCase instance.
func NewGetUnitBalanceUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
) *GetUnitBalanceUseCase {
	return &GetUnitBalanceUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
	}
}

// Execute reads the balance.
func (uc *GetUnitBalanceUseCase) Execute(ctx context.Context, input GetUnitBalanceInput) (*GetUnitBalanceOutput, error) {
	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	hasPending, err := uc.transactionRepo.HasPending(ctx, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending payments: %w", err)
	}

	if !unit.Billable() {
		return &GetUnitBalanceOutput{Balance: decimal.Zero, HasPendingPayment: hasPending}, nil
	}

	balance, err := uc.transactionRepo.OccupantBalance(ctx, unit.ID, *unit.OccupantID)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit balance: %w", err)
	}

	return &GetUnitBalanceOutput{Balance: balance, HasPendingPayment: hasPending}, nil
}
