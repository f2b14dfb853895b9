package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/integration/persistence/model"
)

// unitRepository implements the adapter.UnitRepository interface.
type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository instance.
func NewUnitRepository(db *gorm.DB) adapter.UnitRepository {
	return &unitRepository{
		db: db,
	}
}

// FindByID retrieves a unit by its ID.
func (r *unitRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error) {
	var m model.UnitModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUnitNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindVerifiedByBuilding lists the verified units of a building.
func (r *unitRepository) FindVerifiedByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*entity.Unit, error) {
	var models []model.UnitModel
	err := r.db.WithContext(ctx).
		Where("building_id = ? AND verified = ?", buildingID, true).
		Order("number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	units := make([]*entity.Unit, len(models))
	for i := range models {
		units[i] = models[i].ToEntity()
	}
	return units, nil
}

// buildingRepository implements the adapter.BuildingRepository interface.
type buildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository creates a new building repository instance.
func NewBuildingRepository(db *gorm.DB) adapter.BuildingRepository {
	return &buildingRepository{
		db: db,
	}
}

// FindByID retrieves a building by its ID.
func (r *buildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Building, error) {
	var m model.BuildingModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBuildingNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindAll lists all buildings for the monthly fee batch.
func (r *buildingRepository) FindAll(ctx context.Context) ([]*entity.Building, error) {
	var models []model.BuildingModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	buildings := make([]*entity.Building, len(models))
	for i := range models {
		buildings[i] = models[i].ToEntity()
	}
	return buildings, nil
}
