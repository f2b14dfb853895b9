package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// ListExpensesInput identifies the building to list expenses for.
type ListExpensesInput struct {
	BuildingID uuid.UUID
}

// ListExpensesOutput carries the building's expenses, newest first.
type ListExpensesOutput struct {
	Expenses []*entity.BuildingExpense
}

// ListExpensesUseCase lists a building's recorded expenses.
type ListExpensesUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	buildingRepo adapter.BuildingRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(
	expenseRepo adapter.ExpenseRepository,
	buildingRepo adapter.BuildingRepository,
) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo:  expenseRepo,
		buildingRepo: buildingRepo,
	}
}

// Execute lists the expenses.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	if _, err := uc.buildingRepo.FindByID(ctx, input.BuildingID); err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByBuilding(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &ListExpensesOutput{Expenses: expenses}, nil
}
