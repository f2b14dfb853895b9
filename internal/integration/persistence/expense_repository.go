package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	"github.com/building-ledger/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create inserts a new building expense.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.BuildingExpense) error {
	return r.db.WithContext(ctx).Create(model.ExpenseFromEntity(expense)).Error
}

// ListByBuilding lists expenses for a building, newest first.
func (r *expenseRepository) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*entity.BuildingExpense, error) {
	var models []model.BuildingExpenseModel
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("expense_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*entity.BuildingExpense, len(models))
	for i := range models {
		expenses[i] = models[i].ToEntity()
	}
	return expenses, nil
}

// SumByFund sums expense amounts per fund for a building.
func (r *expenseRepository) SumByFund(ctx context.Context, buildingID uuid.UUID) (map[entity.FundType]decimal.Decimal, error) {
	var rows []struct {
		FundType string          `gorm:"column:fund_type"`
		Total    decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.BuildingExpenseModel{}).
		Select("fund_type, COALESCE(SUM(amount), 0) as total").
		Where("building_id = ?", buildingID).
		Group("fund_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[entity.FundType]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[entity.FundType(row.FundType)] = row.Total
	}
	return sums, nil
}

// SumByMethod sums expense amounts per payment method for a building.
func (r *expenseRepository) SumByMethod(ctx context.Context, buildingID uuid.UUID) (map[entity.PaymentMethod]decimal.Decimal, error) {
	var rows []struct {
		PaymentMethod string          `gorm:"column:payment_method"`
		Total         decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.BuildingExpenseModel{}).
		Select("payment_method, COALESCE(SUM(amount), 0) as total").
		Where("building_id = ?", buildingID).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[entity.PaymentMethod]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[entity.PaymentMethod(row.PaymentMethod)] = row.Total
	}
	return sums, nil
}
