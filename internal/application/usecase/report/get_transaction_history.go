package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// GetTransactionHistoryInput identifies the unit and optional type filter.
type GetTransactionHistoryInput struct {
	UnitID uuid.UUID
	Type   *entity.TransactionType
}

// GetTransactionHistoryOutput carries the occupant-scoped history.
type GetTransactionHistoryOutput struct {
	Transactions []*entity.Transaction
}

// GetTransactionHistoryUseCase lists the unit's transactions scoped to the
// current occupant, newest first. A vacant unit has no visible history.
type GetTransactionHistoryUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
}

// NewGetTransactionHistoryUseCase creates a new GetTransactionHistoryUseCase instance.
func NewGetTransactionHistoryUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
) *GetTransactionHistoryUseCase {
	return &GetTransactionHistoryUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
	}
}

// Execute lists the history.
func (uc *GetTransactionHistoryUseCase) Execute(ctx context.Context, input GetTransactionHistoryInput) (*GetTransactionHistoryOutput, error) {
	if input.Type != nil && !entity.ValidTransactionType(*input.Type) {
		return nil, fmt.Errorf("unknown transaction type %q", *input.Type)
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	if !unit.Billable() {
		return &GetTransactionHistoryOutput{Transactions: []*entity.Transaction{}}, nil
	}

	transactions, err := uc.transactionRepo.HistoryByUnit(ctx, unit.ID, *unit.OccupantID, input.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction history: %w", err)
	}

	return &GetTransactionHistoryOutput{Transactions: transactions}, nil
}
