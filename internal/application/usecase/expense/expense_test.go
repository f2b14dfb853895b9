package expense

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

type expenseRecorder struct {
	adapter.ExpenseRepository

	created []*entity.BuildingExpense
	listed  []*entity.BuildingExpense
}

func (r *expenseRecorder) Create(_ context.Context, expense *entity.BuildingExpense) error {
	r.created = append(r.created, expense)
	return nil
}

func (r *expenseRecorder) ListByBuilding(context.Context, uuid.UUID) ([]*entity.BuildingExpense, error) {
	return r.listed, nil
}

type buildingLookup struct {
	buildings map[uuid.UUID]*entity.Building
}

func (f *buildingLookup) FindByID(_ context.Context, id uuid.UUID) (*entity.Building, error) {
	if building, ok := f.buildings[id]; ok {
		return building, nil
	}
	return nil, domainerror.ErrBuildingNotFound
}

func (f *buildingLookup) FindAll(context.Context) ([]*entity.Building, error) {
	return nil, nil
}

func TestCreateExpenseUseCase_Execute(t *testing.T) {
	buildingID := uuid.New()
	buildings := &buildingLookup{buildings: map[uuid.UUID]*entity.Building{
		buildingID: {ID: buildingID, Name: "A"},
	}}

	valid := func() CreateExpenseInput {
		return CreateExpenseInput{
			BuildingID:    buildingID,
			Amount:        decimal.NewFromInt(450),
			FundType:      entity.FundTypeRepair,
			PaymentMethod: entity.PaymentMethodBankTransfer,
			Description:   "Roof repair invoice",
		}
	}

	t.Run("records the expense", func(t *testing.T) {
		recorder := &expenseRecorder{}
		uc := NewCreateExpenseUseCase(recorder, buildings)

		createdBy := uuid.New()
		documentURL := "https://files.example/invoice.pdf"
		input := valid()
		input.DocumentURL = &documentURL
		input.CreatedBy = &createdBy

		output, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expense := output.Expense
		if expense.BuildingID != buildingID {
			t.Error("expected the expense on the given building")
		}
		if !expense.Amount.Equal(decimal.NewFromInt(450)) {
			t.Errorf("expected amount 450, got %s", expense.Amount)
		}
		if expense.FundType != entity.FundTypeRepair {
			t.Errorf("expected REPAIR fund, got %s", expense.FundType)
		}
		if expense.DocumentURL == nil || *expense.DocumentURL != documentURL {
			t.Error("expected the supporting document on the expense")
		}
		if expense.CreatedBy == nil || *expense.CreatedBy != createdBy {
			t.Error("expected the creating manager on the expense")
		}
		if len(recorder.created) != 1 {
			t.Errorf("expected 1 write, got %d", len(recorder.created))
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		uc := NewCreateExpenseUseCase(&expenseRecorder{}, buildings)

		input := valid()
		input.Amount = decimal.Zero
		if _, err := uc.Execute(context.Background(), input); !errors.Is(err, domainerror.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects unknown funds", func(t *testing.T) {
		uc := NewCreateExpenseUseCase(&expenseRecorder{}, buildings)

		input := valid()
		input.FundType = entity.FundType("PETTY")
		if _, err := uc.Execute(context.Background(), input); !errors.Is(err, domainerror.ErrInvalidFundType) {
			t.Errorf("expected ErrInvalidFundType, got %v", err)
		}
	})

	t.Run("rejects unknown payment methods", func(t *testing.T) {
		uc := NewCreateExpenseUseCase(&expenseRecorder{}, buildings)

		input := valid()
		input.PaymentMethod = entity.PaymentMethod("CHEQUE")
		if _, err := uc.Execute(context.Background(), input); !errors.Is(err, domainerror.ErrInvalidPaymentMethod) {
			t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
		}
	})

	t.Run("requires a description", func(t *testing.T) {
		uc := NewCreateExpenseUseCase(&expenseRecorder{}, buildings)

		input := valid()
		input.Description = ""
		_, err := uc.Execute(context.Background(), input)
		var financeErr *domainerror.FinanceError
		if !errors.As(err, &financeErr) || financeErr.Code != domainerror.ErrCodeMissingFields {
			t.Errorf("expected missing fields error, got %v", err)
		}
	})

	t.Run("unknown building", func(t *testing.T) {
		uc := NewCreateExpenseUseCase(&expenseRecorder{}, buildings)

		input := valid()
		input.BuildingID = uuid.New()
		if _, err := uc.Execute(context.Background(), input); !errors.Is(err, domainerror.ErrBuildingNotFound) {
			t.Errorf("expected ErrBuildingNotFound, got %v", err)
		}
	})
}

func TestListExpensesUseCase_Execute(t *testing.T) {
	buildingID := uuid.New()
	buildings := &buildingLookup{buildings: map[uuid.UUID]*entity.Building{
		buildingID: {ID: buildingID, Name: "A"},
	}}

	recorder := &expenseRecorder{listed: []*entity.BuildingExpense{
		entity.NewBuildingExpense(buildingID, decimal.NewFromInt(100), entity.FundTypeGeneral,
			entity.PaymentMethodCash, "Cleaning supplies", nil, nil),
	}}
	uc := NewListExpensesUseCase(recorder, buildings)

	output, err := uc.Execute(context.Background(), ListExpensesInput{BuildingID: buildingID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Expenses) != 1 {
		t.Errorf("expected 1 expense, got %d", len(output.Expenses))
	}

	if _, err := uc.Execute(context.Background(), ListExpensesInput{BuildingID: uuid.New()}); !errors.Is(err, domainerror.ErrBuildingNotFound) {
		t.Errorf("expected ErrBuildingNotFound, got %v", err)
	}
}
