// Package valueobject contains pure domain logic for the building ledger:
// payment allocation and budget proration. Everything here is free of
// side effects so the math can be tested in isolation.
package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// Allocation assigns a portion of a payment to one fund.
type Allocation struct {
	Fund   entity.FundType
	Amount decimal.Decimal
}

// FundDebts holds the outstanding debt per fund for a unit's current
// occupant at the moment of allocation. Missing funds count as zero.
type FundDebts map[entity.FundType]decimal.Decimal

// Debt returns the non-negative debt recorded for the given fund.
func (d FundDebts) Debt(fund entity.FundType) decimal.Decimal {
	debt, ok := d[fund]
	if !ok || debt.IsNegative() {
		return decimal.Zero
	}
	return debt
}

// waterfallOrder is the fixed priority in which debts are settled.
// Whatever remains after the ordered funds goes to GENERAL as credit.
var waterfallOrder = []entity.FundType{
	entity.FundTypeRepair,
	entity.FundTypeMaintenance,
}

// Waterfall distributes a payment amount across funds in fixed priority
// order: REPAIR first, then MAINTENANCE, with any remainder (including the
// entire amount when there is no debt) credited to GENERAL. Steps that
// would allocate zero emit no allocation.
//
// The result depends on the debts outstanding when each payment lands, so
// partial payments applied out of order distribute differently than one
// combined payment would. That is intended behavior.
func Waterfall(amount decimal.Decimal, debts FundDebts) []Allocation {
	var allocations []Allocation
	remaining := amount

	for _, fund := range waterfallOrder {
		if !remaining.IsPositive() {
			break
		}
		debt := debts.Debt(fund)
		if !debt.IsPositive() {
			continue
		}
		pay := decimal.Min(remaining, debt)
		allocations = append(allocations, Allocation{Fund: fund, Amount: pay})
		remaining = remaining.Sub(pay)
	}

	if remaining.IsPositive() {
		allocations = append(allocations, Allocation{Fund: entity.FundTypeGeneral, Amount: remaining})
	}

	return allocations
}

// DirectAllocation bypasses the waterfall and assigns the full amount to a
// single caller-chosen fund. Used for manager-directed cash deposits.
func DirectAllocation(amount decimal.Decimal, fund entity.FundType) []Allocation {
	if !amount.IsPositive() {
		return nil
	}
	return []Allocation{{Fund: fund, Amount: amount}}
}

// OutstandingDebt computes the non-negative debt for one fund from the
// accrued charges and the confirmed payment splits applied against them.
func OutstandingDebt(totalCharged, totalPaid decimal.Decimal) decimal.Decimal {
	debt := totalCharged.Sub(totalPaid)
	if debt.IsNegative() {
		return decimal.Zero
	}
	return debt
}
