package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Building carries the monthly budgets to be prorated across its units.
// Building CRUD belongs to the building-management service; the ledger
// only reads budgets and writes expenses against the building.
type Building struct {
	ID                uuid.UUID
	Name              string
	RepairBudget      *decimal.Decimal // monthly total, nil until configured
	MaintenanceBudget *decimal.Decimal
	CreatedAt         time.Time
}

// BuildingExpense is an outflow not tied to a unit, such as contractor
// invoices or gateway processing fees.
type BuildingExpense struct {
	ID            uuid.UUID
	BuildingID    uuid.UUID
	Amount        decimal.Decimal
	FundType      FundType
	PaymentMethod PaymentMethod
	Description   string
	DocumentURL   *string
	ExpenseDate   time.Time
	CreatedBy     *uuid.UUID
}

// NewBuildingExpense creates a new BuildingExpense entity.
func NewBuildingExpense(
	buildingID uuid.UUID,
	amount decimal.Decimal,
	fund FundType,
	method PaymentMethod,
	description string,
	documentURL *string,
	createdBy *uuid.UUID,
) *BuildingExpense {
	return &BuildingExpense{
		ID:            uuid.New(),
		BuildingID:    buildingID,
		Amount:        amount,
		FundType:      fund,
		PaymentMethod: method,
		Description:   description,
		DocumentURL:   documentURL,
		ExpenseDate:   time.Now().UTC(),
		CreatedBy:     createdBy,
	}
}
