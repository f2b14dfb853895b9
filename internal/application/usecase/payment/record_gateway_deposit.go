// Package payment contains payment intake and approval use cases.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// eventCacheTTL bounds how long a processed gateway event id is remembered.
// The unique reference-id constraint remains the authoritative guard; the
// cache only absorbs webhook redelivery bursts.
const eventCacheTTL = 24 * time.Hour

// RecordGatewayDepositInput represents a completed gateway payment event.
type RecordGatewayDepositInput struct {
	UnitID      uuid.UUID
	GrossAmount decimal.Decimal
	GatewayFee  decimal.Decimal // processing fee withheld by the gateway
	ExternalID  string          // gateway event or payment intent id
	ReceiptURL  string          // gateway-hosted receipt, optional
}

// RecordGatewayDepositOutput represents the result of gateway intake.
type RecordGatewayDepositOutput struct {
	Transaction     *entity.Transaction
	AlreadyRecorded bool
}

// RecordGatewayDepositUseCase records a confirmed gateway deposit exactly
// once, allocating the gross amount through the debt waterfall and posting
// the processing fee as a building expense.
type RecordGatewayDepositUseCase struct {
	transactionRepo adapter.TransactionRepository
	unitRepo        adapter.UnitRepository
	expenseRepo     adapter.ExpenseRepository
	eventCache      adapter.EventCache
	receipts        *receipt.Service
}

// NewRecordGatewayDepositUseCase creates a new RecordGatewayDepositUseCase instance.
func NewRecordGatewayDepositUseCase(
	transactionRepo adapter.TransactionRepository,
	unitRepo adapter.UnitRepository,
	expenseRepo adapter.ExpenseRepository,
	eventCache adapter.EventCache,
	receipts *receipt.Service,
) *RecordGatewayDepositUseCase {
	return &RecordGatewayDepositUseCase{
		transactionRepo: transactionRepo,
		unitRepo:        unitRepo,
		expenseRepo:     expenseRepo,
		eventCache:      eventCache,
		receipts:        receipts,
	}
}

// Execute records the gateway deposit. Redelivered events succeed as no-ops.
func (uc *RecordGatewayDepositUseCase) Execute(ctx context.Context, input RecordGatewayDepositInput) (*RecordGatewayDepositOutput, error) {
	if !input.GrossAmount.IsPositive() {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeInvalidAmount,
			"deposit amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}
	if input.ExternalID == "" {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeMissingFields,
			"gateway event id is required",
			nil,
		)
	}

	cacheKey := "gateway:event:" + input.ExternalID

	// Fast path for webhook redeliveries. Cache errors degrade to the
	// database checks, they never block intake.
	seen, err := uc.eventCache.Seen(ctx, cacheKey)
	if err != nil {
		slog.Warn("Event cache unavailable, falling back to database dedup", "error", err)
	} else if seen {
		existing, err := uc.transactionRepo.FindByReferenceID(ctx, input.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load already recorded deposit: %w", err)
		}
		return &RecordGatewayDepositOutput{Transaction: existing, AlreadyRecorded: true}, nil
	}

	unit, err := uc.unitRepo.FindByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(
		unit.ID,
		nil, // occupant resolved under lock by the repository
		input.GrossAmount,
		entity.TransactionTypePayment,
		entity.PaymentMethodStripe,
		nil,
		"Online deposit via payment gateway",
		entity.TransactionStatusConfirmed,
	)
	transaction.ReferenceID = &input.ExternalID
	if input.ReceiptURL != "" {
		transaction.ExternalProofURL = &input.ReceiptURL
	}

	if err := uc.transactionRepo.CreateConfirmedPayment(ctx, transaction, nil); err != nil {
		if errors.Is(err, domainerror.ErrDuplicateReference) {
			existing, findErr := uc.transactionRepo.FindByReferenceID(ctx, input.ExternalID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load already recorded deposit: %w", findErr)
			}
			uc.markSeen(ctx, cacheKey)
			return &RecordGatewayDepositOutput{Transaction: existing, AlreadyRecorded: true}, nil
		}
		return nil, fmt.Errorf("failed to record gateway deposit: %w", err)
	}

	if input.GatewayFee.IsPositive() {
		expense := entity.NewBuildingExpense(
			unit.BuildingID,
			input.GatewayFee,
			entity.FundTypeGeneral,
			entity.PaymentMethodSystem,
			fmt.Sprintf("Payment gateway fee (ref %s)", input.ExternalID),
			nil,
			nil,
		)
		if err := uc.expenseRepo.Create(ctx, expense); err != nil {
			// The deposit is already committed. Log and keep going rather
			// than failing the webhook into a redelivery loop.
			slog.Error("Failed to record gateway fee expense",
				"transaction_id", transaction.ID, "error", err)
		}
	}

	uc.markSeen(ctx, cacheKey)
	uc.receipts.GenerateAndAttach(ctx, transaction, "")

	return &RecordGatewayDepositOutput{Transaction: transaction}, nil
}

func (uc *RecordGatewayDepositUseCase) markSeen(ctx context.Context, key string) {
	if err := uc.eventCache.MarkSeen(ctx, key, eventCacheTTL); err != nil {
		slog.Warn("Failed to mark gateway event in cache", "key", key, "error", err)
	}
}
