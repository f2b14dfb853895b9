// Package fee contains monthly fee generation use cases.
package fee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/domain/valueobject"
)

// GenerateMonthlyFeesInput identifies one fee run.
type GenerateMonthlyFeesInput struct {
	BuildingID uuid.UUID
	Period     string // YYYY-MM
}

// GenerateMonthlyFeesOutput represents the result of one fee run.
type GenerateMonthlyFeesOutput struct {
	Generated   int
	FailedUnits int
	Skipped     bool
	SkipReason  string
}

// GenerateMonthlyFeesUseCase charges a building's verified units their
// prorated share of the monthly budgets. The repair budget prorates by
// unit area, the maintenance budget by resident count. Each run is keyed
// by (building, period) and is generated at most once.
type GenerateMonthlyFeesUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
	buildingRepo    adapter.BuildingRepository
}

// NewGenerateMonthlyFeesUseCase creates a new GenerateMonthlyFeesUseCase instance.
func NewGenerateMonthlyFeesUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
	buildingRepo adapter.BuildingRepository,
) *GenerateMonthlyFeesUseCase {
	return &GenerateMonthlyFeesUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
		buildingRepo:    buildingRepo,
	}
}

// Execute generates the fees for one building and period.
func (uc *GenerateMonthlyFeesUseCase) Execute(ctx context.Context, input GenerateMonthlyFeesInput) (*GenerateMonthlyFeesOutput, error) {
	building, err := uc.buildingRepo.FindByID(ctx, input.BuildingID)
	if err != nil {
		return nil, err
	}

	if building.RepairBudget == nil || building.MaintenanceBudget == nil {
		return &GenerateMonthlyFeesOutput{Skipped: true, SkipReason: "budgets not configured"}, nil
	}
	if building.RepairBudget.IsNegative() || building.MaintenanceBudget.IsNegative() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeBudgetNotConfigured,
			"building budgets must not be negative",
			domainerror.ErrBudgetNotConfigured,
		)
	}

	units, err := uc.unitRepo.FindVerifiedByBuilding(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified units: %w", err)
	}
	if len(units) == 0 {
		return &GenerateMonthlyFeesOutput{Skipped: true, SkipReason: "no verified units"}, nil
	}

	totalArea := decimal.Zero
	totalResidents := decimal.Zero
	for _, unit := range units {
		if unit.Area.IsPositive() {
			totalArea = totalArea.Add(unit.Area)
		}
		if unit.ResidentsCount > 0 {
			totalResidents = totalResidents.Add(decimal.NewFromInt(int64(unit.ResidentsCount)))
		}
	}

	var fees []*entity.Transaction
	var failedUnits []uuid.UUID

	for _, unit := range units {
		unitFees, err := uc.unitCharges(unit, building, input.Period, totalArea, totalResidents)
		if err != nil {
			// One malformed unit must not starve the rest of the building.
			slog.Error("Skipping unit in fee run",
				"unit_id", unit.ID, "building_id", building.ID,
				"period", input.Period, "error", err)
			failedUnits = append(failedUnits, unit.ID)
			continue
		}
		fees = append(fees, unitFees...)
	}

	if err := uc.transactionRepo.PostMonthlyCharges(ctx, building.ID, input.Period, fees, failedUnits); err != nil {
		if errors.Is(err, domainerror.ErrFeeRunAlreadyProcessed) {
			return &GenerateMonthlyFeesOutput{Skipped: true, SkipReason: "period already processed"}, nil
		}
		return nil, fmt.Errorf("failed to post monthly charges: %w", err)
	}

	return &GenerateMonthlyFeesOutput{Generated: len(fees), FailedUnits: len(failedUnits)}, nil
}

// unitCharges computes the fee transactions for one unit. Fees carry
// negative amounts and a single implicit fund.
func (uc *GenerateMonthlyFeesUseCase) unitCharges(
	unit *entity.Unit,
	building *entity.Building,
	period string,
	totalArea, totalResidents decimal.Decimal,
) ([]*entity.Transaction, error) {
	if unit.Area.IsNegative() {
		return nil, fmt.Errorf("unit %s has negative area %s", unit.Number, unit.Area)
	}
	if unit.ResidentsCount < 0 {
		return nil, fmt.Errorf("unit %s has negative residents count %d", unit.Number, unit.ResidentsCount)
	}

	var fees []*entity.Transaction

	repairShare := valueobject.ProrateShare(*building.RepairBudget, unit.Area, totalArea)
	if repairShare.IsPositive() {
		fund := entity.FundTypeRepair
		fees = append(fees, entity.NewTransaction(
			unit.ID,
			unit.OccupantID,
			repairShare.Neg(),
			entity.TransactionTypeFee,
			entity.PaymentMethodSystem,
			&fund,
			fmt.Sprintf("Repair fund fee %s", period),
			entity.TransactionStatusConfirmed,
		))
	}

	residents := decimal.NewFromInt(int64(unit.ResidentsCount))
	maintenanceShare := valueobject.ProrateShare(*building.MaintenanceBudget, residents, totalResidents)
	if maintenanceShare.IsPositive() {
		fund := entity.FundTypeMaintenance
		fees = append(fees, entity.NewTransaction(
			unit.ID,
			unit.OccupantID,
			maintenanceShare.Neg(),
			entity.TransactionTypeFee,
			entity.PaymentMethodSystem,
			&fund,
			fmt.Sprintf("Maintenance fee %s", period),
			entity.TransactionStatusConfirmed,
		))
	}

	return fees, nil
}
