package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// InitiateGatewayDepositInput represents a checkout the resident is starting.
type InitiateGatewayDepositInput struct {
	UnitID uuid.UUID
	Amount decimal.Decimal
}

// InitiateGatewayDepositOutput carries the secret the frontend needs to
// complete the checkout with the gateway.
type InitiateGatewayDepositOutput struct {
	ClientSecret string
}

// InitiateGatewayDepositUseCase starts an online deposit with the payment
// gateway. Nothing is written to the ledger here; the deposit lands later
// through the gateway webhook.
type InitiateGatewayDepositUseCase struct {
	unitRepo adapter.UnitRepository
	gateway  adapter.PaymentGateway
}

// NewInitiateGatewayDepositUseCase creates a new InitiateGatewayDepositUseCase instance.
func NewInitiateGatewayDepositUseCase(
	unitRepo adapter.UnitRepository,
	gateway adapter.PaymentGateway,
) *InitiateGatewayDepositUseCase {
	return &InitiateGatewayDepositUseCase{
		unitRepo: unitRepo,
		gateway:  gateway,
	}
}

// Execute starts the checkout.
func (uc *InitiateGatewayDepositUseCase) Execute(ctx context.Context, input InitiateGatewayDepositInput) (*InitiateGatewayDepositOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidAmount,
			"deposit amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	clientSecret, err := uc.gateway.CreateDepositIntent(ctx, unit.ID, input.Amount)
	if err != nil {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeGatewayFailed,
			fmt.Sprintf("failed to initiate deposit for unit %s", unit.ID),
			err,
		)
	}

	return &InitiateGatewayDepositOutput{ClientSecret: clientSecret}, nil
}
