package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is a residential unit inside a building. Unit management belongs
// to the building-management service; the ledger reads the attributes
// that drive fee proration and balance scoping.
type Unit struct {
	ID             uuid.UUID
	BuildingID     uuid.UUID
	Number         string
	Area           decimal.Decimal
	ResidentsCount int
	Verified       bool       // only verified units accrue monthly fees
	OccupantID     *uuid.UUID // current responsible resident, nil if vacant
}

// Billable reports whether anyone can currently be charged for the unit.
func (u *Unit) Billable() bool {
	return u.OccupantID != nil
}
