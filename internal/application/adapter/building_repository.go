package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// UnitRepository reads units owned by the building-management collaborator.
type UnitRepository interface {
	// FindByID retrieves a unit, or domain ErrUnitNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error)

	// FindVerifiedByBuilding lists the verified units of a building.
	// Only verified units participate in monthly fee generation.
	FindVerifiedByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*entity.Unit, error)
}

// BuildingRepository reads buildings owned by the building-management collaborator.
type BuildingRepository interface {
	// FindByID retrieves a building, or domain ErrBuildingNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Building, error)

	// FindAll lists all buildings, used by the monthly fee batch.
	FindAll(ctx context.Context) ([]*entity.Building, error)
}
