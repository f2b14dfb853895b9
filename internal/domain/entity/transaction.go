// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of ledger transaction.
type TransactionType string

const (
	TransactionTypePayment TransactionType = "PAYMENT"
	TransactionTypeFee     TransactionType = "FEE"
)

// PaymentMethod represents how money moved.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodStripe       PaymentMethod = "STRIPE"
	PaymentMethodSystem       PaymentMethod = "SYSTEM"
)

// FundType identifies one of the earmarked pools money is tracked against.
type FundType string

const (
	FundTypeRepair      FundType = "REPAIR"
	FundTypeMaintenance FundType = "MAINTENANCE"
	FundTypeGeneral     FundType = "GENERAL"
)

// TransactionStatus represents the lifecycle state of a transaction.
// PENDING is the only non-terminal state.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Transaction represents a monetary event against a unit. FEE transactions
// carry a negative amount and a single implicit fund. Confirmed PAYMENT
// transactions own splits whose amounts sum to the transaction amount.
type Transaction struct {
	ID               uuid.UUID
	UnitID           uuid.UUID
	OccupantID       *uuid.UUID // resident responsible at the time, nil if unit vacant
	Amount           decimal.Decimal
	Type             TransactionType
	PaymentMethod    PaymentMethod
	FundType         *FundType // implicit fund for fees; nil for split payments
	Description      string
	ReferenceID      *string // external idempotency key, unique when present
	ProofURL         *string // internally generated receipt
	ExternalProofURL *string // gateway or bank supplied proof
	Status           TransactionStatus
	CreatedAt        time.Time

	Splits []*TransactionSplit
}

// TransactionSplit is the portion of a payment assigned to one fund.
type TransactionSplit struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	FundType      FundType
	Amount        decimal.Decimal
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	unitID uuid.UUID,
	occupantID *uuid.UUID,
	amount decimal.Decimal,
	transactionType TransactionType,
	method PaymentMethod,
	fund *FundType,
	description string,
	status TransactionStatus,
) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		UnitID:        unitID,
		OccupantID:    occupantID,
		Amount:        amount,
		Type:          transactionType,
		PaymentMethod: method,
		FundType:      fund,
		Description:   description,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}

// AddSplit appends a fund split to the transaction.
func (t *Transaction) AddSplit(fund FundType, amount decimal.Decimal) {
	t.Splits = append(t.Splits, &TransactionSplit{
		ID:            uuid.New(),
		TransactionID: t.ID,
		FundType:      fund,
		Amount:        amount,
	})
}

// IsTerminal reports whether the transaction can no longer change state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusRejected
}

// SplitTotal returns the sum of all split amounts.
func (t *Transaction) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// ValidTransactionType reports whether the given type is known.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionTypePayment || t == TransactionTypeFee
}

// ValidFundType reports whether the given fund is known.
func ValidFundType(f FundType) bool {
	return f == FundTypeRepair || f == FundTypeMaintenance || f == FundTypeGeneral
}

// ValidPaymentMethod reports whether the given method is known.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodStripe, PaymentMethodSystem:
		return true
	}
	return false
}
