package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// CreateSystemNoteInput represents an audit annotation against a unit.
type CreateSystemNoteInput struct {
	UnitID      uuid.UUID
	Description string
	DocumentURL string // optional supporting document
}

// CreateSystemNoteOutput carries the recorded note.
type CreateSystemNoteOutput struct {
	Transaction *entity.Transaction
}

// CreateSystemNoteUseCase records a zero-amount system entry on a unit's
// ledger. Notes document events like handover protocols without moving
// any money.
type CreateSystemNoteUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
}

// NewCreateSystemNoteUseCase creates a new CreateSystemNoteUseCase instance.
func NewCreateSystemNoteUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
) *CreateSystemNoteUseCase {
	return &CreateSystemNoteUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
	}
}

// Execute records the note.
func (uc *CreateSystemNoteUseCase) Execute(ctx context.Context, input CreateSystemNoteInput) (*CreateSystemNoteOutput, error) {
	if input.Description == "" {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeMissingFields,
			"note description is required",
			nil,
		)
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	fund := entity.FundTypeGeneral
	note := entity.NewTransaction(
		unit.ID,
		unit.OccupantID,
		decimal.Zero,
		entity.TransactionTypePayment,
		entity.PaymentMethodSystem,
		&fund,
		input.Description,
		entity.TransactionStatusConfirmed,
	)
	if input.DocumentURL != "" {
		note.ExternalProofURL = &input.DocumentURL
	}

	if err := uc.transactionRepo.CreateDirect(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create system note: %w", err)
	}

	return &CreateSystemNoteOutput{Transaction: note}, nil
}
