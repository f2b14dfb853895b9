// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// TransactionSearch defines filter options for building-wide transaction queries.
type TransactionSearch struct {
	BuildingID uuid.UUID
	Type       *entity.TransactionType
	Status     *entity.TransactionStatus
}

// TransactionRepository defines the persistence operations of the ledger store.
//
// The allocation methods are atomic units: base insert, split inserts and
// status change commit or roll back together, and the debt reads they
// perform observe the same snapshot the splits are written against
// (per-unit row locking). A payment is never left half-allocated.
type TransactionRepository interface {
	// CreateConfirmedPayment inserts a CONFIRMED payment and its splits in
	// one transaction. When targetFund is nil the amount is allocated by
	// the debt waterfall; otherwise the full amount goes to targetFund.
	// The responsible occupant is resolved from the unit row under lock.
	CreateConfirmedPayment(ctx context.Context, transaction *entity.Transaction, targetFund *entity.FundType) error

	// CreatePending inserts a PENDING payment with no splits.
	CreatePending(ctx context.Context, transaction *entity.Transaction) error

	// CreateDirect inserts a transaction exactly as given, without
	// allocation. Used for settlement refunds and zero-amount system notes.
	CreateDirect(ctx context.Context, transaction *entity.Transaction) error

	// Approve transitions a PENDING transaction to CONFIRMED, allocating
	// its amount through the waterfall. Returns confirmedNow=false without
	// touching the row when the transaction is already CONFIRMED.
	// Returns domain ErrTransactionTerminal for REJECTED transactions.
	Approve(ctx context.Context, id uuid.UUID) (transaction *entity.Transaction, confirmedNow bool, err error)

	// Reject transitions a PENDING transaction to REJECTED. Rejection is
	// financially inert: no splits are created and balances are unchanged.
	Reject(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// PostMonthlyCharges records the fee run for (building, period) and
	// inserts the given FEE transactions in a single database transaction.
	// Units that failed share computation are recorded on the run for audit.
	// Returns domain ErrFeeRunAlreadyProcessed when the period key exists.
	PostMonthlyCharges(ctx context.Context, buildingID uuid.UUID, period string, fees []*entity.Transaction, failedUnits []uuid.UUID) error

	// FindByID retrieves a transaction with its splits.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByReferenceID retrieves a transaction by its external reference,
	// or domain ErrTransactionNotFound.
	FindByReferenceID(ctx context.Context, referenceID string) (*entity.Transaction, error)

	// AttachProof sets the internally generated receipt location.
	AttachProof(ctx context.Context, id uuid.UUID, proofURL string) error

	// OccupantBalance sums confirmed transaction amounts for (unit, occupant).
	// Negative means the occupant owes money.
	OccupantBalance(ctx context.Context, unitID, occupantID uuid.UUID) (decimal.Decimal, error)

	// HasPending reports whether the unit has any PENDING transactions.
	HasPending(ctx context.Context, unitID uuid.UUID) (bool, error)

	// HistoryByUnit lists transactions for the unit scoped to the given
	// occupant, newest first, optionally filtered by type.
	HistoryByUnit(ctx context.Context, unitID, occupantID uuid.UUID, transactionType *entity.TransactionType) ([]*entity.Transaction, error)

	// Search lists transactions across a building for manager views.
	Search(ctx context.Context, search TransactionSearch) ([]*entity.Transaction, error)

	// IncomeByFund sums confirmed payment splits per fund for a building.
	IncomeByFund(ctx context.Context, buildingID uuid.UUID) (map[entity.FundType]decimal.Decimal, error)

	// IncomeByMethod sums confirmed transaction amounts per payment method
	// for a building.
	IncomeByMethod(ctx context.Context, buildingID uuid.UUID) (map[entity.PaymentMethod]decimal.Decimal, error)
}
