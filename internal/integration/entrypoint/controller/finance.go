// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/application/usecase/expense"
	"github.com/building-ledger/backend/internal/application/usecase/fee"
	"github.com/building-ledger/backend/internal/application/usecase/payment"
	"github.com/building-ledger/backend/internal/application/usecase/report"
	"github.com/building-ledger/backend/internal/application/usecase/settlement"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/building-ledger/backend/internal/integration/entrypoint/middleware"
)

// FinanceController handles ledger endpoints.
type FinanceController struct {
	recordCashDeposit   *payment.RecordCashDepositUseCase
	submitBankTransfer  *payment.SubmitBankTransferUseCase
	initiateDeposit     *payment.InitiateGatewayDepositUseCase
	approveTransaction  *payment.ApproveTransactionUseCase
	rejectTransaction   *payment.RejectTransactionUseCase
	generateFees        *fee.GenerateMonthlyFeesUseCase
	getUnitBalance      *report.GetUnitBalanceUseCase
	getHistory          *report.GetTransactionHistoryUseCase
	listTransactions    *report.ListBuildingTransactionsUseCase
	getSummary          *report.GetFinancialSummaryUseCase
	clearUnitBalance    *settlement.ClearUnitBalanceUseCase
	createSystemNote    *settlement.CreateSystemNoteUseCase
	createExpense       *expense.CreateExpenseUseCase
	listExpenses        *expense.ListExpensesUseCase
}

// NewFinanceController creates a new finance controller instance.
func NewFinanceController(
	recordCashDeposit *payment.RecordCashDepositUseCase,
	submitBankTransfer *payment.SubmitBankTransferUseCase,
	initiateDeposit *payment.InitiateGatewayDepositUseCase,
	approveTransaction *payment.ApproveTransactionUseCase,
	rejectTransaction *payment.RejectTransactionUseCase,
	generateFees *fee.GenerateMonthlyFeesUseCase,
	getUnitBalance *report.GetUnitBalanceUseCase,
	getHistory *report.GetTransactionHistoryUseCase,
	listTransactions *report.ListBuildingTransactionsUseCase,
	getSummary *report.GetFinancialSummaryUseCase,
	clearUnitBalance *settlement.ClearUnitBalanceUseCase,
	createSystemNote *settlement.CreateSystemNoteUseCase,
	createExpense *expense.CreateExpenseUseCase,
	listExpenses *expense.ListExpensesUseCase,
) *FinanceController {
	return &FinanceController{
		recordCashDeposit:  recordCashDeposit,
		submitBankTransfer: submitBankTransfer,
		initiateDeposit:    initiateDeposit,
		approveTransaction: approveTransaction,
		rejectTransaction:  rejectTransaction,
		generateFees:       generateFees,
		getUnitBalance:     getUnitBalance,
		getHistory:         getHistory,
		listTransactions:   listTransactions,
		getSummary:         getSummary,
		clearUnitBalance:   clearUnitBalance,
		createSystemNote:   createSystemNote,
		createExpense:      createExpense,
		listExpenses:       listExpenses,
	}
}

// RecordCashDeposit handles POST /units/:id/payments/cash requests.
func (c *FinanceController) RecordCashDeposit(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CashDepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	amount, ok := parseAmount(ctx, req.Amount)
	if !ok {
		return
	}

	input := payment.RecordCashDepositInput{
		UnitID:      unitID,
		Amount:      amount,
		Description: req.Description,
	}
	if req.TargetFund != "" {
		fund := entity.FundType(req.TargetFund)
		input.TargetFund = &fund
	}
	if issuerID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.IssuerName = issuerID.String()
	}

	output, err := c.recordCashDeposit.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// SubmitBankTransfer handles POST /units/:id/payments/bank-transfer requests.
func (c *FinanceController) SubmitBankTransfer(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BankTransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	amount, ok := parseAmount(ctx, req.Amount)
	if !ok {
		return
	}

	output, err := c.submitBankTransfer.Execute(ctx.Request.Context(), payment.SubmitBankTransferInput{
		UnitID:    unitID,
		Amount:    amount,
		Reference: req.Reference,
		ProofURL:  req.ProofURL,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// InitiateDeposit handles POST /units/:id/payments/deposit requests.
func (c *FinanceController) InitiateDeposit(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.InitiateDepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	amount, ok := parseAmount(ctx, req.Amount)
	if !ok {
		return
	}

	output, err := c.initiateDeposit.Execute(ctx.Request.Context(), payment.InitiateGatewayDepositInput{
		UnitID: unitID,
		Amount: amount,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InitiateDepositResponse{ClientSecret: output.ClientSecret})
}

// ApproveTransaction handles POST /transactions/:id/approve requests.
func (c *FinanceController) ApproveTransaction(ctx *gin.Context) {
	transactionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	input := payment.ApproveTransactionInput{TransactionID: transactionID}
	if issuerID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.IssuerName = issuerID.String()
	}

	output, err := c.approveTransaction.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// RejectTransaction handles POST /transactions/:id/reject requests.
func (c *FinanceController) RejectTransaction(ctx *gin.Context) {
	transactionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.rejectTransaction.Execute(ctx.Request.Context(), payment.RejectTransactionInput{
		TransactionID: transactionID,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// GetUnitBalance handles GET /units/:id/balance requests.
func (c *FinanceController) GetUnitBalance(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getUnitBalance.Execute(ctx.Request.Context(), report.GetUnitBalanceInput{UnitID: unitID})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnitBalanceResponse{
		Balance:           output.Balance.StringFixed(2),
		HasPendingPayment: output.HasPendingPayment,
	})
}

// GetTransactionHistory handles GET /units/:id/transactions requests.
func (c *FinanceController) GetTransactionHistory(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	input := report.GetTransactionHistoryInput{UnitID: unitID}
	if transactionType := ctx.Query("type"); transactionType != "" {
		t := entity.TransactionType(transactionType)
		if !entity.ValidTransactionType(t) {
			badRequest(ctx, "Invalid transaction type filter")
			return
		}
		input.Type = &t
	}

	output, err := c.getHistory.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output.Transactions))
}

// ListBuildingTransactions handles GET /buildings/:id/transactions requests.
func (c *FinanceController) ListBuildingTransactions(ctx *gin.Context) {
	buildingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	input := report.ListBuildingTransactionsInput{BuildingID: buildingID}
	if transactionType := ctx.Query("type"); transactionType != "" {
		t := entity.TransactionType(transactionType)
		if !entity.ValidTransactionType(t) {
			badRequest(ctx, "Invalid transaction type filter")
			return
		}
		input.Type = &t
	}
	if status := ctx.Query("status"); status != "" {
		s := entity.TransactionStatus(status)
		if s != entity.TransactionStatusPending &&
			s != entity.TransactionStatusConfirmed &&
			s != entity.TransactionStatusRejected {
			badRequest(ctx, "Invalid status filter")
			return
		}
		input.Status = &s
	}

	output, err := c.listTransactions.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output.Transactions))
}

// GetFinancialSummary handles GET /buildings/:id/summary requests.
func (c *FinanceController) GetFinancialSummary(ctx *gin.Context) {
	buildingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getSummary.Execute(ctx.Request.Context(), report.GetFinancialSummaryInput{
		BuildingID: buildingID,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(output.Summary))
}

// GenerateFees handles POST /buildings/:id/fees requests.
func (c *FinanceController) GenerateFees(ctx *gin.Context) {
	buildingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GenerateFeesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.generateFees.Execute(ctx.Request.Context(), fee.GenerateMonthlyFeesInput{
		BuildingID: buildingID,
		Period:     req.Period,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateFeesResponse{
		Generated:   output.Generated,
		FailedUnits: output.FailedUnits,
		Skipped:     output.Skipped,
		SkipReason:  output.SkipReason,
	})
}

// ClearUnitBalance handles POST /units/:id/settlement requests.
func (c *FinanceController) ClearUnitBalance(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.clearUnitBalance.Execute(ctx.Request.Context(), settlement.ClearUnitBalanceInput{
		UnitID: unitID,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	response := dto.SettlementResponse{
		Cleared:    output.Cleared,
		Adjustment: output.Adjustment.StringFixed(2),
	}
	if output.Transaction != nil {
		transaction := dto.ToTransactionResponse(output.Transaction)
		response.Transaction = &transaction
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateSystemNote handles POST /units/:id/notes requests.
func (c *FinanceController) CreateSystemNote(ctx *gin.Context) {
	unitID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SystemNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.createSystemNote.Execute(ctx.Request.Context(), settlement.CreateSystemNoteInput{
		UnitID:      unitID,
		Description: req.Description,
		DocumentURL: req.DocumentURL,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// CreateExpense handles POST /buildings/:id/expenses requests.
func (c *FinanceController) CreateExpense(ctx *gin.Context) {
	buildingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	amount, ok := parseAmount(ctx, req.Amount)
	if !ok {
		return
	}

	input := expense.CreateExpenseInput{
		BuildingID:    buildingID,
		Amount:        amount,
		FundType:      entity.FundType(req.FundType),
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Description:   req.Description,
	}
	if req.DocumentURL != "" {
		input.DocumentURL = &req.DocumentURL
	}
	if creatorID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.CreatedBy = &creatorID
	}

	output, err := c.createExpense.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// ListExpenses handles GET /buildings/:id/expenses requests.
func (c *FinanceController) ListExpenses(ctx *gin.Context) {
	buildingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.listExpenses.Execute(ctx.Request.Context(), expense.ListExpensesInput{
		BuildingID: buildingID,
	})
	if err != nil {
		handleFinanceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output.Expenses))
}

// parseIDParam parses a UUID path parameter, responding 400 on failure.
func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid id format")
		return uuid.Nil, false
	}
	return id, true
}

// parseAmount parses a decimal request amount, responding 400 on failure.
func parseAmount(ctx *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid amount format",
			Code:  string(domainerror.ErrCodeInvalidAmount),
		})
		return decimal.Zero, false
	}
	return amount, true
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// handleFinanceError maps domain errors to HTTP responses.
func handleFinanceError(ctx *gin.Context, err error) {
	var financeErr *domainerror.FinanceError
	code := ""
	if errors.As(err, &financeErr) {
		code = string(financeErr.Code)
	}

	switch {
	case errors.Is(err, domainerror.ErrUnitNotFound),
		errors.Is(err, domainerror.ErrBuildingNotFound),
		errors.Is(err, domainerror.ErrTransactionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error(), Code: code})
	case errors.Is(err, domainerror.ErrTransactionTerminal),
		errors.Is(err, domainerror.ErrDuplicateReference),
		errors.Is(err, domainerror.ErrFeeRunAlreadyProcessed),
		errors.Is(err, domainerror.ErrBudgetNotConfigured):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: code})
	case errors.Is(err, domainerror.ErrInvalidAmount),
		errors.Is(err, domainerror.ErrInvalidFundType),
		errors.Is(err, domainerror.ErrInvalidPaymentMethod):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: code})
	case financeErr != nil && financeErr.Code == domainerror.ErrCodeMissingFields:
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: financeErr.Message, Code: code})
	case financeErr != nil && financeErr.Code == domainerror.ErrCodeGatewayFailed:
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: financeErr.Message, Code: code})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
