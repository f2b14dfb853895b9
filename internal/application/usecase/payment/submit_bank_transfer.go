package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// SubmitBankTransferInput represents a resident-declared bank transfer.
type SubmitBankTransferInput struct {
	UnitID    uuid.UUID
	Amount    decimal.Decimal
	Reference string // bank transfer reference, used for manager matching
	ProofURL  string // uploaded transfer slip, optional
}

// SubmitBankTransferOutput represents the result of a bank transfer submission.
type SubmitBankTransferOutput struct {
	Transaction *entity.Transaction
}

// SubmitBankTransferUseCase records a resident's bank transfer claim as
// PENDING. The transfer has no financial effect until a manager approves
// it against the bank statement.
type SubmitBankTransferUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
}

// NewSubmitBankTransferUseCase creates a new SubmitBankTransferUseCase instance.
func NewSubmitBankTransferUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
) *SubmitBankTransferUseCase {
	return &SubmitBankTransferUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
	}
}

// Execute performs the bank transfer submission.
func (uc *SubmitBankTransferUseCase) Execute(ctx context.Context, input SubmitBankTransferInput) (*SubmitBankTransferOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidAmount,
			"transfer amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}
	if input.Reference == "" {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeMissingFields,
			"bank transfer reference is required",
			nil,
		)
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(
		unit.ID,
		nil,
		input.Amount,
		entity.TransactionTypePayment,
		entity.PaymentMethodBankTransfer,
		nil,
		fmt.Sprintf("Bank transfer (ref %s)", input.Reference),
		entity.TransactionStatusPending,
	)
	transaction.ReferenceID = &input.Reference
	if input.ProofURL != "" {
		transaction.ExternalProofURL = &input.ProofURL
	}

	if err := uc.transactionRepo.CreatePending(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to submit bank transfer: %w", err)
	}

	return &SubmitBankTransferOutput{Transaction: transaction}, nil
}
