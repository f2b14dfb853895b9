package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// RejectTransactionInput identifies the pending transaction to reject.
type RejectTransactionInput struct {
	TransactionID uuid.UUID
}

// RejectTransactionOutput represents the result of a rejection.
type RejectTransactionOutput struct {
	Transaction *entity.Transaction
}

// RejectTransactionUseCase rejects a pending bank transfer. Rejection is
// financially inert: no splits are written and no balance changes.
type RejectTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewRejectTransactionUseCase creates a new RejectTransactionUseCase instance.
func NewRejectTransactionUseCase(transactionRepo adapter.TransactionRepository) *RejectTransactionUseCase {
	return &RejectTransactionUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the rejection.
func (uc *RejectTransactionUseCase) Execute(ctx context.Context, input RejectTransactionInput) (*RejectTransactionOutput, error) {
	transaction, err := uc.transactionRepo.Reject(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	return &RejectTransactionOutput{Transaction: transaction}, nil
}
