package dto

import (
	"time"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// Monetary amounts travel as decimal strings to avoid float drift on the
// wire. Responses are fixed to two decimals.

// CashDepositRequest represents the request body for a cash deposit.
// The target unit comes from the path.
type CashDepositRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description,omitempty"`
	TargetFund  string `json:"target_fund,omitempty" binding:"omitempty,oneof=REPAIR MAINTENANCE GENERAL"`
}

// BankTransferRequest represents the request body for a bank transfer claim.
type BankTransferRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	ProofURL  string `json:"proof_url,omitempty"`
}

// InitiateDepositRequest represents the request body for starting an
// online deposit.
type InitiateDepositRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// InitiateDepositResponse carries the gateway checkout secret.
type InitiateDepositResponse struct {
	ClientSecret string `json:"client_secret"`
}

// GenerateFeesRequest represents the request body for a manual fee run.
type GenerateFeesRequest struct {
	Period string `json:"period" binding:"required"`
}

// GenerateFeesResponse reports the outcome of a fee run.
type GenerateFeesResponse struct {
	Generated   int    `json:"generated"`
	FailedUnits int    `json:"failed_units"`
	Skipped     bool   `json:"skipped"`
	SkipReason  string `json:"skip_reason,omitempty"`
}

// CreateExpenseRequest represents the request body for recording an expense.
type CreateExpenseRequest struct {
	Amount        string `json:"amount" binding:"required"`
	FundType      string `json:"fund_type" binding:"required,oneof=REPAIR MAINTENANCE GENERAL"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER STRIPE SYSTEM"`
	Description   string `json:"description" binding:"required"`
	DocumentURL   string `json:"document_url,omitempty"`
}

// SystemNoteRequest represents the request body for a system note.
type SystemNoteRequest struct {
	Description string `json:"description" binding:"required"`
	DocumentURL string `json:"document_url,omitempty"`
}

// TransactionSplitResponse represents one fund allocation of a payment.
type TransactionSplitResponse struct {
	FundType string `json:"fund_type"`
	Amount   string `json:"amount"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID               string                     `json:"id"`
	UnitID           string                     `json:"unit_id"`
	Amount           string                     `json:"amount"`
	Type             string                     `json:"type"`
	PaymentMethod    string                     `json:"payment_method"`
	FundType         *string                    `json:"fund_type,omitempty"`
	Description      string                     `json:"description"`
	ReferenceID      *string                    `json:"reference_id,omitempty"`
	ProofURL         *string                    `json:"proof_url,omitempty"`
	ExternalProofURL *string                    `json:"external_proof_url,omitempty"`
	Status           string                     `json:"status"`
	CreatedAt        time.Time                  `json:"created_at"`
	Splits           []TransactionSplitResponse `json:"splits,omitempty"`
}

// TransactionListResponse represents the response for transaction listings.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// UnitBalanceResponse represents the occupant-scoped balance of a unit.
type UnitBalanceResponse struct {
	Balance           string `json:"balance"`
	HasPendingPayment bool   `json:"has_pending_payment"`
}

// FundBreakdownResponse represents one reporting bucket.
type FundBreakdownResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// FinancialSummaryResponse represents the building summary.
type FinancialSummaryResponse struct {
	TotalBalance string                `json:"total_balance"`
	Repair       FundBreakdownResponse `json:"repair"`
	Maintenance  FundBreakdownResponse `json:"maintenance"`
	CashOnHand   string                `json:"cash_on_hand"`
	BankPosition string                `json:"bank_position"`
}

// SettlementResponse reports the outcome of an ownership-transfer settlement.
type SettlementResponse struct {
	Cleared     bool                 `json:"cleared"`
	Adjustment  string               `json:"adjustment"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ExpenseResponse represents a building expense.
type ExpenseResponse struct {
	ID            string    `json:"id"`
	BuildingID    string    `json:"building_id"`
	Amount        string    `json:"amount"`
	FundType      string    `json:"fund_type"`
	PaymentMethod string    `json:"payment_method"`
	Description   string    `json:"description"`
	DocumentURL   *string   `json:"document_url,omitempty"`
	ExpenseDate   time.Time `json:"expense_date"`
}

// ExpenseListResponse represents the response for expense listings.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// ToTransactionResponse converts a domain Transaction to its DTO.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:               t.ID.String(),
		UnitID:           t.UnitID.String(),
		Amount:           t.Amount.StringFixed(2),
		Type:             string(t.Type),
		PaymentMethod:    string(t.PaymentMethod),
		Description:      t.Description,
		ReferenceID:      t.ReferenceID,
		ProofURL:         t.ProofURL,
		ExternalProofURL: t.ExternalProofURL,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
	}
	if t.FundType != nil {
		fund := string(*t.FundType)
		response.FundType = &fund
	}
	for _, split := range t.Splits {
		response.Splits = append(response.Splits, TransactionSplitResponse{
			FundType: string(split.FundType),
			Amount:   split.Amount.StringFixed(2),
		})
	}
	return response
}

// ToTransactionListResponse converts a slice of transactions to its DTO.
func ToTransactionListResponse(transactions []*entity.Transaction) TransactionListResponse {
	response := TransactionListResponse{Transactions: []TransactionResponse{}}
	for _, t := range transactions {
		response.Transactions = append(response.Transactions, ToTransactionResponse(t))
	}
	return response
}

// ToFinancialSummaryResponse converts a domain summary to its DTO.
func ToFinancialSummaryResponse(summary *entity.FinancialSummary) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		TotalBalance: summary.TotalBalance.StringFixed(2),
		Repair:       toFundBreakdownResponse(summary.Repair),
		Maintenance:  toFundBreakdownResponse(summary.Maintenance),
		CashOnHand:   summary.CashOnHand.StringFixed(2),
		BankPosition: summary.BankPosition.StringFixed(2),
	}
}

func toFundBreakdownResponse(breakdown entity.FundBreakdown) FundBreakdownResponse {
	return FundBreakdownResponse{
		Income:  breakdown.Income.StringFixed(2),
		Expense: breakdown.Expense.StringFixed(2),
		Balance: breakdown.Balance.StringFixed(2),
	}
}

// ToExpenseResponse converts a domain BuildingExpense to its DTO.
func ToExpenseResponse(expense *entity.BuildingExpense) ExpenseResponse {
	return ExpenseResponse{
		ID:            expense.ID.String(),
		BuildingID:    expense.BuildingID.String(),
		Amount:        expense.Amount.StringFixed(2),
		FundType:      string(expense.FundType),
		PaymentMethod: string(expense.PaymentMethod),
		Description:   expense.Description,
		DocumentURL:   expense.DocumentURL,
		ExpenseDate:   expense.ExpenseDate,
	}
}

// ToExpenseListResponse converts a slice of expenses to its DTO.
func ToExpenseListResponse(expenses []*entity.BuildingExpense) ExpenseListResponse {
	response := ExpenseListResponse{Expenses: []ExpenseResponse{}}
	for _, expense := range expenses {
		response.Expenses = append(response.Expenses, ToExpenseResponse(expense))
	}
	return response
}
