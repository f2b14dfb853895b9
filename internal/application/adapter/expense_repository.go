package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// ExpenseRepository defines persistence operations for building expenses.
type ExpenseRepository interface {
	// Create inserts a new building expense.
	Create(ctx context.Context, expense *entity.BuildingExpense) error

	// ListByBuilding lists expenses for a building, newest first.
	ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*entity.BuildingExpense, error)

	// SumByFund sums expense amounts per fund for a building.
	SumByFund(ctx context.Context, buildingID uuid.UUID) (map[entity.FundType]decimal.Decimal, error)

	// SumByMethod sums expense amounts per payment method for a building.
	SumByMethod(ctx context.Context, buildingID uuid.UUID) (map[entity.PaymentMethod]decimal.Decimal, error)
}
