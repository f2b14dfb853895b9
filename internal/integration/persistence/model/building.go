package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// BuildingModel represents the buildings table. The ledger reads budgets
// from it; building CRUD lives in the building-management service.
type BuildingModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name              string           `gorm:"type:varchar(255);not null"`
	RepairBudget      *decimal.Decimal `gorm:"type:decimal(19,2)"`
	MaintenanceBudget *decimal.Decimal `gorm:"type:decimal(19,2)"`
	CreatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for the BuildingModel.
func (BuildingModel) TableName() string {
	return "buildings"
}

// ToEntity converts a BuildingModel to a domain Building entity.
func (m *BuildingModel) ToEntity() *entity.Building {
	return &entity.Building{
		ID:                m.ID,
		Name:              m.Name,
		RepairBudget:      m.RepairBudget,
		MaintenanceBudget: m.MaintenanceBudget,
		CreatedAt:         m.CreatedAt,
	}
}

// BuildingExpenseModel represents the building_expenses table.
type BuildingExpenseModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuildingID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	FundType      string          `gorm:"type:varchar(20);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Description   string          `gorm:"type:varchar(255)"`
	DocumentURL   *string         `gorm:"type:varchar(512)"`
	ExpenseDate   time.Time       `gorm:"not null;index"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for the BuildingExpenseModel.
func (BuildingExpenseModel) TableName() string {
	return "building_expenses"
}

// ToEntity converts a BuildingExpenseModel to a domain BuildingExpense.
func (m *BuildingExpenseModel) ToEntity() *entity.BuildingExpense {
	return &entity.BuildingExpense{
		ID:            m.ID,
		BuildingID:    m.BuildingID,
		Amount:        m.Amount,
		FundType:      entity.FundType(m.FundType),
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Description:   m.Description,
		DocumentURL:   m.DocumentURL,
		ExpenseDate:   m.ExpenseDate,
		CreatedBy:     m.CreatedBy,
	}
}

// ExpenseFromEntity creates a BuildingExpenseModel from a domain entity.
func ExpenseFromEntity(expense *entity.BuildingExpense) *BuildingExpenseModel {
	return &BuildingExpenseModel{
		ID:            expense.ID,
		BuildingID:    expense.BuildingID,
		Amount:        expense.Amount,
		FundType:      string(expense.FundType),
		PaymentMethod: string(expense.PaymentMethod),
		Description:   expense.Description,
		DocumentURL:   expense.DocumentURL,
		ExpenseDate:   expense.ExpenseDate,
		CreatedBy:     expense.CreatedBy,
	}
}
