// Package error defines domain-specific errors for the building ledger.
package error

import "errors"

// Finance domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnitNotFound is returned when a unit is not found.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrBuildingNotFound is returned when a building is not found.
	ErrBuildingNotFound = errors.New("building not found")

	// ErrTransactionTerminal is returned when a state transition is attempted
	// on a transaction that is already CONFIRMED or REJECTED.
	ErrTransactionTerminal = errors.New("transaction is in a terminal state")

	// ErrInvalidAmount is returned when a monetary amount fails validation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidFundType is returned when an unknown fund is supplied.
	ErrInvalidFundType = errors.New("invalid fund type")

	// ErrInvalidPaymentMethod is returned when an unknown payment method is supplied.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrDuplicateReference is returned when a transaction with the same
	// external reference id already exists. Gateway intake treats this as an
	// idempotent no-op, not a failure.
	ErrDuplicateReference = errors.New("reference id already recorded")

	// ErrFeeRunAlreadyProcessed is returned when monthly fees were already
	// generated for a building and period.
	ErrFeeRunAlreadyProcessed = errors.New("fee run already processed for period")

	// ErrBudgetNotConfigured is returned when a building is missing the
	// repair or maintenance budget required for fee generation.
	ErrBudgetNotConfigured = errors.New("building budget not configured")
)

// FinanceErrorCode defines error codes for finance errors.
// Format: FIN-XXYYYY where XX is category and YYYY is specific error.
type FinanceErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount        FinanceErrorCode = "FIN-010001"
	ErrCodeInvalidFundType      FinanceErrorCode = "FIN-010002"
	ErrCodeInvalidPaymentMethod FinanceErrorCode = "FIN-010003"
	ErrCodeMissingFields        FinanceErrorCode = "FIN-010004"

	// Lookup errors (02XXXX)
	ErrCodeTransactionNotFound FinanceErrorCode = "FIN-020001"
	ErrCodeUnitNotFound        FinanceErrorCode = "FIN-020002"
	ErrCodeBuildingNotFound    FinanceErrorCode = "FIN-020003"

	// State errors (03XXXX)
	ErrCodeTransactionTerminal  FinanceErrorCode = "FIN-030001"
	ErrCodeDuplicateReference   FinanceErrorCode = "FIN-030002"
	ErrCodeFeeRunAlreadyDone    FinanceErrorCode = "FIN-030003"
	ErrCodeBudgetNotConfigured  FinanceErrorCode = "FIN-030004"
	ErrCodeUnitNotBillable      FinanceErrorCode = "FIN-030005"

	// External dependency errors (04XXXX)
	ErrCodeReceiptFailed FinanceErrorCode = "FIN-040001"
	ErrCodeGatewayFailed FinanceErrorCode = "FIN-040002"
)

// FinanceError represents a finance error with code and message.
type FinanceError struct {
	Code    FinanceErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FinanceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *FinanceError) Unwrap() error {
	return e.Err
}

// NewFinanceError creates a new FinanceError with the given code and message.
func NewFinanceError(code FinanceErrorCode, message string, err error) *FinanceError {
	return &FinanceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
