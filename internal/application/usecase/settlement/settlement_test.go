package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// settlementRepo records the writes the settlement use cases make.
type settlementRepo struct {
	adapter.TransactionRepository

	balance   decimal.Decimal
	confirmed []*entity.Transaction
	direct    []*entity.Transaction
	proofs    map[uuid.UUID]string
}

func newSettlementRepo(balance decimal.Decimal) *settlementRepo {
	return &settlementRepo{balance: balance, proofs: map[uuid.UUID]string{}}
}

func (r *settlementRepo) OccupantBalance(context.Context, uuid.UUID, uuid.UUID) (decimal.Decimal, error) {
	return r.balance, nil
}

func (r *settlementRepo) CreateConfirmedPayment(_ context.Context, transaction *entity.Transaction, _ *entity.FundType) error {
	r.confirmed = append(r.confirmed, transaction)
	return nil
}

func (r *settlementRepo) CreateDirect(_ context.Context, transaction *entity.Transaction) error {
	r.direct = append(r.direct, transaction)
	return nil
}

func (r *settlementRepo) AttachProof(_ context.Context, id uuid.UUID, proofURL string) error {
	r.proofs[id] = proofURL
	return nil
}

type unitLookup struct {
	units map[uuid.UUID]*entity.Unit
}

func (f *unitLookup) FindByID(_ context.Context, id uuid.UUID) (*entity.Unit, error) {
	if unit, ok := f.units[id]; ok {
		return unit, nil
	}
	return nil, domainerror.ErrUnitNotFound
}

func (f *unitLookup) FindVerifiedByBuilding(context.Context, uuid.UUID) ([]*entity.Unit, error) {
	return nil, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, *entity.Transaction, string) ([]byte, error) {
	return []byte("receipt"), nil
}

type stubFileStore struct{}

func (stubFileStore) Store(_ context.Context, _ []byte, name string) (string, error) {
	return "/receipts/" + name, nil
}

func occupiedUnit() *entity.Unit {
	occupant := uuid.New()
	return &entity.Unit{
		ID:             uuid.New(),
		BuildingID:     uuid.New(),
		Number:         "7C",
		Area:           decimal.NewFromInt(45),
		ResidentsCount: 1,
		Verified:       true,
		OccupantID:     &occupant,
	}
}

func newUseCase(repo *settlementRepo, units *unitLookup) *ClearUnitBalanceUseCase {
	receipts := receipt.NewService(stubRenderer{}, stubFileStore{}, repo, nil)
	return NewClearUnitBalanceUseCase(repo, units, receipts)
}

func TestClearUnitBalanceUseCase_Execute(t *testing.T) {
	t.Run("writes off outstanding debt through the waterfall", func(t *testing.T) {
		unit := occupiedUnit()
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		repo := newSettlementRepo(decimal.NewFromInt(-150))
		uc := newUseCase(repo, units)

		output, err := uc.Execute(context.Background(), ClearUnitBalanceInput{UnitID: unit.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Cleared {
			t.Error("expected the balance cleared")
		}
		if !output.Adjustment.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected adjustment 150, got %s", output.Adjustment)
		}
		if len(repo.confirmed) != 1 || len(repo.direct) != 0 {
			t.Fatalf("expected one waterfall payment, got %d confirmed / %d direct", len(repo.confirmed), len(repo.direct))
		}

		writeOff := repo.confirmed[0]
		if writeOff.PaymentMethod != entity.PaymentMethodSystem {
			t.Errorf("expected SYSTEM method, got %s", writeOff.PaymentMethod)
		}
		if !writeOff.Amount.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected amount 150, got %s", writeOff.Amount)
		}
		if writeOff.ProofURL == nil {
			t.Error("expected a receipt on the write-off")
		}
	})

	t.Run("refunds overpaid credit as cash", func(t *testing.T) {
		unit := occupiedUnit()
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		repo := newSettlementRepo(decimal.NewFromInt(80))
		uc := newUseCase(repo, units)

		output, err := uc.Execute(context.Background(), ClearUnitBalanceInput{UnitID: unit.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Cleared {
			t.Error("expected the balance cleared")
		}
		if !output.Adjustment.Equal(decimal.NewFromInt(-80)) {
			t.Errorf("expected adjustment -80, got %s", output.Adjustment)
		}
		if len(repo.direct) != 1 || len(repo.confirmed) != 0 {
			t.Fatalf("expected one direct refund, got %d direct / %d confirmed", len(repo.direct), len(repo.confirmed))
		}

		refund := repo.direct[0]
		if refund.PaymentMethod != entity.PaymentMethodCash {
			t.Errorf("expected CASH method, got %s", refund.PaymentMethod)
		}
		if !refund.Amount.Equal(decimal.NewFromInt(-80)) {
			t.Errorf("expected amount -80, got %s", refund.Amount)
		}
		if refund.FundType == nil || *refund.FundType != entity.FundTypeGeneral {
			t.Error("expected the refund against the general fund")
		}
		if refund.OccupantID == nil || *refund.OccupantID != *unit.OccupantID {
			t.Error("expected the refund attributed to the outgoing occupant")
		}
	})

	t.Run("zero balance needs no adjustment", func(t *testing.T) {
		unit := occupiedUnit()
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		repo := newSettlementRepo(decimal.Zero)
		uc := newUseCase(repo, units)

		output, err := uc.Execute(context.Background(), ClearUnitBalanceInput{UnitID: unit.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Cleared {
			t.Error("expected no clearing on a zero balance")
		}
		if len(repo.confirmed)+len(repo.direct) != 0 {
			t.Error("expected no writes on a zero balance")
		}
	})

	t.Run("vacant unit needs no adjustment", func(t *testing.T) {
		unit := occupiedUnit()
		unit.OccupantID = nil
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		repo := newSettlementRepo(decimal.NewFromInt(-100))
		uc := newUseCase(repo, units)

		output, err := uc.Execute(context.Background(), ClearUnitBalanceInput{UnitID: unit.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Cleared {
			t.Error("expected no clearing on a vacant unit")
		}
	})

	t.Run("unknown unit", func(t *testing.T) {
		uc := newUseCase(newSettlementRepo(decimal.Zero), &unitLookup{})

		_, err := uc.Execute(context.Background(), ClearUnitBalanceInput{UnitID: uuid.New()})
		if !errors.Is(err, domainerror.ErrUnitNotFound) {
			t.Errorf("expected ErrUnitNotFound, got %v", err)
		}
	})
}

func TestCreateSystemNoteUseCase_Execute(t *testing.T) {
	t.Run("records a zero-amount note", func(t *testing.T) {
		unit := occupiedUnit()
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		repo := newSettlementRepo(decimal.Zero)
		uc := NewCreateSystemNoteUseCase(repo, units)

		output, err := uc.Execute(context.Background(), CreateSystemNoteInput{
			UnitID:      unit.ID,
			Description: "Handover protocol signed",
			DocumentURL: "https://files.example/protocol.pdf",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		note := output.Transaction
		if !note.Amount.IsZero() {
			t.Errorf("expected a zero amount, got %s", note.Amount)
		}
		if note.PaymentMethod != entity.PaymentMethodSystem {
			t.Errorf("expected SYSTEM method, got %s", note.PaymentMethod)
		}
		if note.ExternalProofURL == nil || *note.ExternalProofURL != "https://files.example/protocol.pdf" {
			t.Error("expected the supporting document on the note")
		}
		if len(repo.direct) != 1 {
			t.Errorf("expected one direct write, got %d", len(repo.direct))
		}
	})

	t.Run("requires a description", func(t *testing.T) {
		unit := occupiedUnit()
		units := &unitLookup{units: map[uuid.UUID]*entity.Unit{unit.ID: unit}}
		uc := NewCreateSystemNoteUseCase(newSettlementRepo(decimal.Zero), units)

		_, err := uc.Execute(context.Background(), CreateSystemNoteInput{UnitID: unit.ID})
		var financeErr *domainerror.FinanceError
		if !errors.As(err, &financeErr) || financeErr.Code != domainerror.ErrCodeMissingFields {
			t.Errorf("expected missing fields error, got %v", err)
		}
	})
}
