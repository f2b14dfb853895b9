package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/building-ledger/backend/internal/application/usecase/fee"
	"github.com/building-ledger/backend/internal/integration/persistence/model"
)

func seedUnverifiedUnit(t *testing.T, db *gorm.DB, buildingID uuid.UUID) uuid.UUID {
	t.Helper()
	occupant := uuid.New()
	unit := model.UnitModel{
		ID:             uuid.New(),
		BuildingID:     buildingID,
		Number:         "13B",
		Area:           dec(t, "45"),
		ResidentsCount: 3,
		Verified:       false,
		OccupantID:     &occupant,
	}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("failed to seed unverified unit: %v", err)
	}
	return unit.ID
}

func TestFindVerifiedByBuilding_ExcludesUnverified(t *testing.T) {
	db := openTestDB(t)
	repo := NewUnitRepository(db)
	ctx := context.Background()

	buildingID := seedBuilding(t, db)
	occupant := uuid.New()
	verifiedID := seedUnit(t, db, buildingID, &occupant)
	seedUnverifiedUnit(t, db, buildingID)

	otherBuildingID := seedBuilding(t, db)
	seedUnit(t, db, otherBuildingID, nil)

	units, err := repo.FindVerifiedByBuilding(ctx, buildingID)
	if err != nil {
		t.Fatalf("failed to list units: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].ID != verifiedID {
		t.Errorf("expected unit %s, got %s", verifiedID, units[0].ID)
	}
}

func TestGenerateMonthlyFees_ChargesOnlyVerifiedUnits(t *testing.T) {
	db := openTestDB(t)
	useCase := fee.NewGenerateMonthlyFeesUseCase(
		NewTransactionRepository(db),
		NewUnitRepository(db),
		NewBuildingRepository(db),
	)

	buildingID := seedBuilding(t, db)
	occupant := uuid.New()
	verifiedID := seedUnit(t, db, buildingID, &occupant)
	unverifiedID := seedUnverifiedUnit(t, db, buildingID)

	output, err := useCase.Execute(context.Background(), fee.GenerateMonthlyFeesInput{
		BuildingID: buildingID,
		Period:     "2026-09",
	})
	if err != nil {
		t.Fatalf("failed to generate fees: %v", err)
	}
	if output.Skipped {
		t.Fatalf("expected run to generate fees, got skip: %s", output.SkipReason)
	}
	if output.Generated != 2 {
		t.Errorf("expected 2 fees, got %d", output.Generated)
	}

	var count int64
	if err := db.Model(&model.TransactionModel{}).
		Where("unit_id = ?", unverifiedID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count charges: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no charges for the unverified unit, got %d", count)
	}

	if err := db.Model(&model.TransactionModel{}).
		Where("unit_id = ?", verifiedID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count charges: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 charges for the verified unit, got %d", count)
	}
}
