package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// ListBuildingTransactionsInput carries the manager-view filters.
type ListBuildingTransactionsInput struct {
	BuildingID uuid.UUID
	Type       *entity.TransactionType
	Status     *entity.TransactionStatus
}

// ListBuildingTransactionsOutput carries the filtered transactions.
type ListBuildingTransactionsOutput struct {
	Transactions []*entity.Transaction
}

// ListBuildingTransactionsUseCase lists transactions across a whole
// building for manager review, such as the pending bank transfer queue.
type ListBuildingTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	buildingRepo    adapter.BuildingRepository
}

// NewListBuildingTransactionsUseCase creates a new ListBuildingTransactionsUseCase instance.
func NewListBuildingTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	buildingRepo adapter.BuildingRepository,
) *ListBuildingTransactionsUseCase {
	return &ListBuildingTransactionsUseCase{
		transactionRepo: transactionRepo,
		buildingRepo:    buildingRepo,
	}
}

// Execute lists the transactions.
func (uc *ListBuildingTransactionsUseCase) Execute(ctx context.Context, input ListBuildingTransactionsInput) (*ListBuildingTransactionsOutput, error) {
	if _, err := uc.buildingRepo.FindByID(ctx, input.BuildingID); err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.Search(ctx, adapter.TransactionSearch{
		BuildingID: input.BuildingID,
		Type:       input.Type,
		Status:     input.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search building transactions: %w", err)
	}

	return &ListBuildingTransactionsOutput{Transactions: transactions}, nil
}
