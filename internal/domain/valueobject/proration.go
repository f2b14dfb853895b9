package valueobject

import (
	"github.com/shopspring/decimal"
)

// ProrateShare computes one unit's share of a monthly budget, weighted by
// the unit's attribute (area or resident count) against the building total.
// Rounded half-up to two decimals.
//
// Each share is rounded independently, so the sum of all shares may differ
// from the budget by a few cents. That drift is accepted rather than
// corrected with a remainder redistribution step.
func ProrateShare(budget, weight, totalWeight decimal.Decimal) decimal.Decimal {
	if !totalWeight.IsPositive() || !weight.IsPositive() {
		return decimal.Zero
	}
	return budget.Mul(weight).DivRound(totalWeight, 2)
}
