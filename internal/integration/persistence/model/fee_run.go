package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FeeRunModel records a completed monthly fee run per building and period.
// The unique index makes re-running the same period an idempotent no-op.
type FeeRunModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BuildingID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_fee_runs_building_period"`
	Period        string         `gorm:"type:varchar(7);not null;uniqueIndex:idx_fee_runs_building_period"`
	UnitCount     int            `gorm:"not null"`
	FailedUnitIDs pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time      `gorm:"not null"`
}

// TableName returns the table name for the FeeRunModel.
func (FeeRunModel) TableName() string {
	return "fee_runs"
}
