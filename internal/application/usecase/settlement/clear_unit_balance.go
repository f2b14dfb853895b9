// Package settlement contains ownership-transfer use cases.
package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// ClearUnitBalanceInput identifies the unit being handed over.
type ClearUnitBalanceInput struct {
	UnitID uuid.UUID
}

// ClearUnitBalanceOutput reports the adjustment posted, if any.
type ClearUnitBalanceOutput struct {
	Cleared     bool
	Adjustment  decimal.Decimal
	Transaction *entity.Transaction
}

// ClearUnitBalanceUseCase zeroes the outgoing occupant's balance before an
// ownership transfer. Outstanding debt is written off with a system
// payment allocated through the waterfall; overpaid credit is returned as
// a cash refund from the general fund. The next occupant starts at zero.
type ClearUnitBalanceUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
	receipts        *receipt.Service
}

// NewClearUnitBalanceUseCase creates a new ClearUnitBalanceUseCase instance.
func NewClearUnitBalanceUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
	receipts *receipt.Service,
) *ClearUnitBalanceUseCase {
	return &ClearUnitBalanceUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
		receipts:        receipts,
	}
}

// Execute settles the unit's balance.
func (uc *ClearUnitBalanceUseCase) Execute(ctx context.Context, input ClearUnitBalanceInput) (*ClearUnitBalanceOutput, error) {
	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	if !unit.Billable() {
		return &ClearUnitBalanceOutput{Adjustment: decimal.Zero}, nil
	}

	balance, err := uc.transactionRepo.OccupantBalance(ctx, unit.ID, *unit.OccupantID)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit balance: %w", err)
	}
	if balance.IsZero() {
		return &ClearUnitBalanceOutput{Adjustment: decimal.Zero}, nil
	}

	adjustment := balance.Neg()

	if adjustment.IsPositive() {
		// Debt write-off: allocated through the waterfall like a real
		// payment so the fund ledgers close out too.
		transaction := entity.NewTransaction(
			unit.ID,
			nil,
			adjustment,
			entity.TransactionTypePayment,
			entity.PaymentMethodSystem,
			nil,
			"Ownership transfer settlement: debt write-off",
			entity.TransactionStatusConfirmed,
		)
		if err := uc.transactionRepo.CreateConfirmedPayment(ctx, transaction, nil); err != nil {
			return nil, fmt.Errorf("failed to write off unit debt: %w", err)
		}
		uc.receipts.GenerateAndAttach(ctx, transaction, "")
		return &ClearUnitBalanceOutput{Cleared: true, Adjustment: adjustment, Transaction: transaction}, nil
	}

	// Overpaid credit leaves as cash. The negative amount carries no
	// splits; it reduces the general bucket in the summary.
	fund := entity.FundTypeGeneral
	refund := entity.NewTransaction(
		unit.ID,
		unit.OccupantID,
		adjustment,
		entity.TransactionTypePayment,
		entity.PaymentMethodCash,
		&fund,
		"Ownership transfer settlement: credit refund",
		entity.TransactionStatusConfirmed,
	)
	if err := uc.transactionRepo.CreateDirect(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to refund unit credit: %w", err)
	}

	return &ClearUnitBalanceOutput{Cleared: true, Adjustment: adjustment, Transaction: refund}, nil
}
