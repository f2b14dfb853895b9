package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// ApproveTransactionInput identifies the pending transaction to approve.
type ApproveTransactionInput struct {
	TransactionID uuid.UUID
	IssuerName    string
}

// ApproveTransactionOutput represents the result of an approval.
type ApproveTransactionOutput struct {
	Transaction      *entity.Transaction
	AlreadyConfirmed bool
}

// ApproveTransactionUseCase confirms a pending bank transfer, allocating
// its amount through the debt waterfall at approval time. Approving an
// already confirmed transaction is a no-op; approving a rejected one is
// an error.
type ApproveTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	receipts        *receipt.Service
}

// NewApproveTransactionUseCase creates a new ApproveTransactionUseCase instance.
func NewApproveTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	receipts *receipt.Service,
) *ApproveTransactionUseCase {
	return &ApproveTransactionUseCase{
		transactionRepo: transactionRepo,
		receipts:        receipts,
	}
}

// Execute performs the approval.
func (uc *ApproveTransactionUseCase) Execute(ctx context.Context, input ApproveTransactionInput) (*ApproveTransactionOutput, error) {
	transaction, confirmedNow, err := uc.transactionRepo.Approve(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if confirmedNow {
		uc.receipts.GenerateAndAttach(ctx, transaction, input.IssuerName)
	}

	return &ApproveTransactionOutput{
		Transaction:      transaction,
		AlreadyConfirmed: !confirmedNow,
	}, nil
}
