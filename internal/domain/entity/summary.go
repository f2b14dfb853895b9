package entity

import "github.com/shopspring/decimal"

// FundBreakdown aggregates confirmed income against expenses for one
// reporting bucket.
type FundBreakdown struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// FinancialSummary is the read-side aggregation for a building. The repair
// fund reports on its own; maintenance and general are folded together.
// Always computed from current ledger state, never cached.
type FinancialSummary struct {
	TotalBalance decimal.Decimal
	Repair       FundBreakdown
	Maintenance  FundBreakdown
	CashOnHand   decimal.Decimal
	BankPosition decimal.Decimal
}
