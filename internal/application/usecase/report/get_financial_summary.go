// Package report contains read-side reporting use cases.
package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// GetFinancialSummaryInput identifies the building to summarize.
type GetFinancialSummaryInput struct {
	BuildingID uuid.UUID
}

// GetFinancialSummaryOutput carries the building's financial summary.
type GetFinancialSummaryOutput struct {
	Summary *entity.FinancialSummary
}

// GetFinancialSummaryUseCase aggregates the building's ledger into fund
// balances and cash positions. The summary is always computed from current
// ledger state; the repair fund reports on its own while maintenance and
// general income fold into one operational bucket.
type GetFinancialSummaryUseCase struct {
	transactionRepo adapter.TransactionRepository
	expenseRepo     adapter.ExpenseRepository
	buildingRepo    adapter.BuildingRepository
}

// NewGetFinancialSummaryUseCase creates a new GetFinancialSummaryUseCase instance.
func NewGetFinancialSummaryUseCase(
	transactionRepo adapter.TransactionRepository,
	expenseRepo adapter.ExpenseRepository,
	buildingRepo adapter.BuildingRepository,
) *GetFinancialSummaryUseCase {
	return &GetFinancialSummaryUseCase{
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
		buildingRepo:    buildingRepo,
	}
}

// Execute computes the summary.
func (uc *GetFinancialSummaryUseCase) Execute(ctx context.Context, input GetFinancialSummaryInput) (*GetFinancialSummaryOutput, error) {
	if _, err := uc.buildingRepo.FindByID(ctx, input.BuildingID); err != nil {
		return nil, err
	}

	incomeByFund, err := uc.transactionRepo.IncomeByFund(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate income by fund: %w", err)
	}
	expenseByFund, err := uc.expenseRepo.SumByFund(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses by fund: %w", err)
	}
	incomeByMethod, err := uc.transactionRepo.IncomeByMethod(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate income by method: %w", err)
	}
	expenseByMethod, err := uc.expenseRepo.SumByMethod(ctx, input.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses by method: %w", err)
	}

	repair := breakdown(
		incomeByFund[entity.FundTypeRepair],
		expenseByFund[entity.FundTypeRepair],
	)
	maintenance := breakdown(
		incomeByFund[entity.FundTypeMaintenance].Add(incomeByFund[entity.FundTypeGeneral]),
		expenseByFund[entity.FundTypeMaintenance].Add(expenseByFund[entity.FundTypeGeneral]),
	)

	// Cash position includes negative entries (refunds), so it can go
	// below zero when refunds outpace cash intake.
	cashOnHand := incomeByMethod[entity.PaymentMethodCash].
		Sub(expenseByMethod[entity.PaymentMethodCash])

	bankPosition := incomeByMethod[entity.PaymentMethodStripe].
		Add(incomeByMethod[entity.PaymentMethodBankTransfer]).
		Sub(expenseByMethod[entity.PaymentMethodBankTransfer])

	summary := &entity.FinancialSummary{
		TotalBalance: repair.Balance.Add(maintenance.Balance),
		Repair:       repair,
		Maintenance:  maintenance,
		CashOnHand:   cashOnHand,
		BankPosition: bankPosition,
	}

	return &GetFinancialSummaryOutput{Summary: summary}, nil
}

func breakdown(income, expense decimal.Decimal) entity.FundBreakdown {
	return entity.FundBreakdown{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
