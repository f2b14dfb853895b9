package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// RecordCashDepositInput represents a cash payment handed to the manager.
type RecordCashDepositInput struct {
	UnitID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	TargetFund  *entity.FundType // when set, bypasses the waterfall
	IssuerName  string           // manager who took the cash, printed on the receipt
}

// RecordCashDepositOutput represents the result of a cash deposit.
type RecordCashDepositOutput struct {
	Transaction *entity.Transaction
}

// RecordCashDepositUseCase records a manager-entered cash deposit as
// immediately CONFIRMED. By default the amount runs through the debt
// waterfall; the manager may direct it to a single fund instead.
type RecordCashDepositUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
	receipts        *receipt.Service
}

// NewRecordCashDepositUseCase creates a new RecordCashDepositUseCase instance.
func NewRecordCashDepositUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
	receipts *receipt.Service,
) *RecordCashDepositUseCase {
	return &RecordCashDepositUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
		receipts:        receipts,
	}
}

// Execute performs the cash deposit.
func (uc *RecordCashDepositUseCase) Execute(ctx context.Context, input RecordCashDepositInput) (*RecordCashDepositOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidAmount,
			"deposit amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}
	if input.TargetFund != nil && !entity.ValidFundType(*input.TargetFund) {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidFundType,
			"fund must be REPAIR, MAINTENANCE or GENERAL",
			domainerror.ErrInvalidFundType,
		)
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = "Cash deposit"
	}

	transaction := entity.NewTransaction(
		unit.ID,
		nil,
		input.Amount,
		entity.TransactionTypePayment,
		entity.PaymentMethodCash,
		input.TargetFund,
		description,
		entity.TransactionStatusConfirmed,
	)

	if err := uc.transactionRepo.CreateConfirmedPayment(ctx, transaction, input.TargetFund); err != nil {
		return nil, fmt.Errorf("failed to record cash deposit: %w", err)
	}

	uc.receipts.GenerateAndAttach(ctx, transaction, input.IssuerName)

	return &RecordCashDepositOutput{Transaction: transaction}, nil
}
