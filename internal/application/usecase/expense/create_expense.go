// Package expense contains building expense use cases.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// CreateExpenseInput represents a building outflow to record.
type CreateExpenseInput struct {
	BuildingID    uuid.UUID
	Amount        decimal.Decimal
	FundType      entity.FundType
	PaymentMethod entity.PaymentMethod
	Description   string
	DocumentURL   *string
	CreatedBy     *uuid.UUID
}

// CreateExpenseOutput carries the recorded expense.
type CreateExpenseOutput struct {
	Expense *entity.BuildingExpense
}

// CreateExpenseUseCase records money leaving a building's funds, such as
// contractor invoices paid from the repair fund.
type CreateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	buildingRepo adapter.BuildingRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	buildingRepo adapter.BuildingRepository,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo:  expenseRepo,
		buildingRepo: buildingRepo,
	}
}

// Execute records the expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidAmount,
			"expense amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}
	if !entity.ValidFundType(input.FundType) {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidFundType,
			"fund must be REPAIR, MAINTENANCE or GENERAL",
			domainerror.ErrInvalidFundType,
		)
	}
	if !entity.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidPaymentMethod,
			"unknown payment method",
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	if input.Description == "" {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeMissingFields,
			"expense description is required",
			nil,
		)
	}

	building, err := uc.buildingRepo.FindByID(ctx, input.BuildingID)
	if err != nil {
		return nil, err
	}

	expense := entity.NewBuildingExpense(
		building.ID,
		input.Amount,
		input.FundType,
		input.PaymentMethod,
		input.Description,
		input.DocumentURL,
		input.CreatedBy,
	)

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreateExpenseOutput{Expense: expense}, nil
}
