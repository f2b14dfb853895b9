package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// UnitModel represents the units table. The ledger locks the unit row to
// serialize financial mutations per unit; the rest of the record is owned
// by the building-management service.
type UnitModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuildingID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number         string          `gorm:"type:varchar(50);not null"`
	Area           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ResidentsCount int             `gorm:"not null;default:0"`
	Verified       bool            `gorm:"not null;default:false"`
	OccupantID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for the UnitModel.
func (UnitModel) TableName() string {
	return "units"
}

// ToEntity converts a UnitModel to a domain Unit entity.
func (m *UnitModel) ToEntity() *entity.Unit {
	return &entity.Unit{
		ID:             m.ID,
		BuildingID:     m.BuildingID,
		Number:         m.Number,
		Area:           m.Area,
		ResidentsCount: m.ResidentsCount,
		Verified:       m.Verified,
		OccupantID:     m.OccupantID,
	}
}
