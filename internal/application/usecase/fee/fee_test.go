package fee

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// chargeRecorder records PostMonthlyCharges calls; the other repository
// methods are exercised by the persistence tests.
type chargeRecorder struct {
	adapter.TransactionRepository

	mu          chan struct{} // 1-token semaphore, batch tests post concurrently
	fees        []*entity.Transaction
	failedUnits []uuid.UUID
	periods     map[string]bool
	postErr     error
}

func newChargeRecorder() *chargeRecorder {
	recorder := &chargeRecorder{mu: make(chan struct{}, 1), periods: map[string]bool{}}
	recorder.mu <- struct{}{}
	return recorder
}

func (r *chargeRecorder) PostMonthlyCharges(_ context.Context, buildingID uuid.UUID, period string, fees []*entity.Transaction, failedUnits []uuid.UUID) error {
	<-r.mu
	defer func() { r.mu <- struct{}{} }()

	if r.postErr != nil {
		return r.postErr
	}
	key := buildingID.String() + ":" + period
	if r.periods[key] {
		return domainerror.ErrFeeRunAlreadyProcessed
	}
	r.periods[key] = true
	r.fees = append(r.fees, fees...)
	r.failedUnits = append(r.failedUnits, failedUnits...)
	return nil
}

type fakeUnitRepo struct {
	byBuilding map[uuid.UUID][]*entity.Unit
}

func (f *fakeUnitRepo) FindByID(context.Context, uuid.UUID) (*entity.Unit, error) {
	return nil, domainerror.ErrUnitNotFound
}

func (f *fakeUnitRepo) FindVerifiedByBuilding(_ context.Context, buildingID uuid.UUID) ([]*entity.Unit, error) {
	return f.byBuilding[buildingID], nil
}

type fakeBuildingRepo struct {
	buildings map[uuid.UUID]*entity.Building
}

func (f *fakeBuildingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Building, error) {
	if building, ok := f.buildings[id]; ok {
		return building, nil
	}
	return nil, domainerror.ErrBuildingNotFound
}

func (f *fakeBuildingRepo) FindAll(context.Context) ([]*entity.Building, error) {
	all := make([]*entity.Building, 0, len(f.buildings))
	for _, building := range f.buildings {
		all = append(all, building)
	}
	return all, nil
}

func budget(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func verifiedUnit(area string, residents int) *entity.Unit {
	occupant := uuid.New()
	return &entity.Unit{
		ID:             uuid.New(),
		Number:         "unit",
		Area:           decimal.RequireFromString(area),
		ResidentsCount: residents,
		Verified:       true,
		OccupantID:     &occupant,
	}
}

func TestGenerateMonthlyFeesUseCase_Execute(t *testing.T) {
	t.Run("prorates budgets across verified units", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("1000"), MaintenanceBudget: budget("300")},
		}}
		unitA := verifiedUnit("60", 2) // 60% of area, 2 of 3 residents
		unitB := verifiedUnit("40", 1)
		units := &fakeUnitRepo{byBuilding: map[uuid.UUID][]*entity.Unit{
			buildingID: {unitA, unitB},
		}}
		recorder := newChargeRecorder()
		uc := NewGenerateMonthlyFeesUseCase(recorder, units, buildings)

		output, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{
			BuildingID: buildingID,
			Period:     "2026-09",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Skipped {
			t.Fatalf("unexpected skip: %s", output.SkipReason)
		}
		if output.Generated != 4 {
			t.Errorf("expected 4 fee transactions, got %d", output.Generated)
		}

		byUnitAndFund := map[uuid.UUID]map[entity.FundType]decimal.Decimal{}
		for _, fee := range recorder.fees {
			if fee.Type != entity.TransactionTypeFee || fee.Status != entity.TransactionStatusConfirmed {
				t.Errorf("expected confirmed FEE transactions, got %s/%s", fee.Type, fee.Status)
			}
			if fee.PaymentMethod != entity.PaymentMethodSystem {
				t.Errorf("expected SYSTEM method, got %s", fee.PaymentMethod)
			}
			if fee.FundType == nil {
				t.Fatal("expected a fund on each fee")
			}
			if byUnitAndFund[fee.UnitID] == nil {
				byUnitAndFund[fee.UnitID] = map[entity.FundType]decimal.Decimal{}
			}
			byUnitAndFund[fee.UnitID][*fee.FundType] = fee.Amount
		}

		if got := byUnitAndFund[unitA.ID][entity.FundTypeRepair]; !got.Equal(decimal.RequireFromString("-600")) {
			t.Errorf("expected unit A repair fee -600, got %s", got)
		}
		if got := byUnitAndFund[unitB.ID][entity.FundTypeRepair]; !got.Equal(decimal.RequireFromString("-400")) {
			t.Errorf("expected unit B repair fee -400, got %s", got)
		}
		if got := byUnitAndFund[unitA.ID][entity.FundTypeMaintenance]; !got.Equal(decimal.RequireFromString("-200")) {
			t.Errorf("expected unit A maintenance fee -200, got %s", got)
		}
		if got := byUnitAndFund[unitB.ID][entity.FundTypeMaintenance]; !got.Equal(decimal.RequireFromString("-100")) {
			t.Errorf("expected unit B maintenance fee -100, got %s", got)
		}
	})

	t.Run("skips buildings without configured budgets", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("1000")},
		}}
		uc := NewGenerateMonthlyFeesUseCase(newChargeRecorder(), &fakeUnitRepo{}, buildings)

		output, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{BuildingID: buildingID, Period: "2026-09"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Skipped || output.SkipReason != "budgets not configured" {
			t.Errorf("expected a budget skip, got %+v", output)
		}
	})

	t.Run("rejects negative budgets", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("-1"), MaintenanceBudget: budget("300")},
		}}
		uc := NewGenerateMonthlyFeesUseCase(newChargeRecorder(), &fakeUnitRepo{}, buildings)

		_, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{BuildingID: buildingID, Period: "2026-09"})
		if !errors.Is(err, domainerror.ErrBudgetNotConfigured) {
			t.Errorf("expected ErrBudgetNotConfigured, got %v", err)
		}
	})

	t.Run("skips buildings without verified units", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("1000"), MaintenanceBudget: budget("300")},
		}}
		uc := NewGenerateMonthlyFeesUseCase(newChargeRecorder(), &fakeUnitRepo{}, buildings)

		output, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{BuildingID: buildingID, Period: "2026-09"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Skipped || output.SkipReason != "no verified units" {
			t.Errorf("expected a no-units skip, got %+v", output)
		}
	})

	t.Run("reports the dedup skip on a reprocessed period", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("1000"), MaintenanceBudget: budget("300")},
		}}
		units := &fakeUnitRepo{byBuilding: map[uuid.UUID][]*entity.Unit{
			buildingID: {verifiedUnit("60", 2)},
		}}
		recorder := newChargeRecorder()
		uc := NewGenerateMonthlyFeesUseCase(recorder, units, buildings)

		input := GenerateMonthlyFeesInput{BuildingID: buildingID, Period: "2026-09"}
		if _, err := uc.Execute(context.Background(), input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Skipped || output.SkipReason != "period already processed" {
			t.Errorf("expected a dedup skip, got %+v", output)
		}
		if len(recorder.fees) != 2 {
			t.Errorf("expected fees from a single run, got %d", len(recorder.fees))
		}
	})

	t.Run("a malformed unit fails alone", func(t *testing.T) {
		buildingID := uuid.New()
		buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
			buildingID: {ID: buildingID, Name: "A", RepairBudget: budget("1000"), MaintenanceBudget: budget("300")},
		}}
		good := verifiedUnit("60", 2)
		bad := verifiedUnit("-10", 1)
		units := &fakeUnitRepo{byBuilding: map[uuid.UUID][]*entity.Unit{
			buildingID: {good, bad},
		}}
		recorder := newChargeRecorder()
		uc := NewGenerateMonthlyFeesUseCase(recorder, units, buildings)

		output, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{BuildingID: buildingID, Period: "2026-09"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.FailedUnits != 1 {
			t.Errorf("expected 1 failed unit, got %d", output.FailedUnits)
		}
		if len(recorder.failedUnits) != 1 || recorder.failedUnits[0] != bad.ID {
			t.Errorf("expected the malformed unit recorded on the run, got %v", recorder.failedUnits)
		}
		for _, fee := range recorder.fees {
			if fee.UnitID == bad.ID {
				t.Error("expected no fees for the malformed unit")
			}
		}
	})

	t.Run("unknown building", func(t *testing.T) {
		uc := NewGenerateMonthlyFeesUseCase(newChargeRecorder(), &fakeUnitRepo{}, &fakeBuildingRepo{})

		_, err := uc.Execute(context.Background(), GenerateMonthlyFeesInput{BuildingID: uuid.New(), Period: "2026-09"})
		if !errors.Is(err, domainerror.ErrBuildingNotFound) {
			t.Errorf("expected ErrBuildingNotFound, got %v", err)
		}
	})
}

func TestRunFeeBatchUseCase_Execute(t *testing.T) {
	configured := uuid.New()
	unconfigured := uuid.New()
	failing := uuid.New()
	buildings := &fakeBuildingRepo{buildings: map[uuid.UUID]*entity.Building{
		configured:   {ID: configured, Name: "A", RepairBudget: budget("1000"), MaintenanceBudget: budget("300")},
		unconfigured: {ID: unconfigured, Name: "B"},
		failing:      {ID: failing, Name: "C", RepairBudget: budget("-1"), MaintenanceBudget: budget("0")},
	}}
	units := &fakeUnitRepo{byBuilding: map[uuid.UUID][]*entity.Unit{
		configured: {verifiedUnit("60", 2)},
	}}
	recorder := newChargeRecorder()
	generate := NewGenerateMonthlyFeesUseCase(recorder, units, buildings)
	uc := NewRunFeeBatchUseCase(buildings, generate, 3)

	output, err := uc.Execute(context.Background(), RunFeeBatchInput{Period: "2026-09"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Processed != 1 {
		t.Errorf("expected 1 processed building, got %d", output.Processed)
	}
	if output.Skipped != 1 {
		t.Errorf("expected 1 skipped building, got %d", output.Skipped)
	}
	if len(output.Failed) != 1 {
		t.Fatalf("expected 1 failed building, got %d", len(output.Failed))
	}
	if output.Failed[0].BuildingID != failing {
		t.Errorf("expected building C to fail, got %s", output.Failed[0].BuildingID)
	}
	if !errors.Is(output.Failed[0].Err, domainerror.ErrBudgetNotConfigured) {
		t.Errorf("expected a budget error, got %v", output.Failed[0].Err)
	}
}
