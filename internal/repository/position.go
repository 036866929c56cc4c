package repository

import (
	"context"

	"domainreg/internal/cache"
	"domainreg/internal/models"

	"gorm.io/gorm"
)

// PositionRepository defines persistence operations for position lookups.
type PositionRepository interface {
	ListActive(ctx context.Context) ([]models.Position, error)
	Create(ctx context.Context, position *models.Position) error
}

type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository returns a new PositionRepository implementation.
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) ListActive(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position

	err := cache.Aside(ctx, cache.PositionsListKey, &positions, cache.PositionsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("name ASC").
			Find(&positions).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) Create(ctx context.Context, position *models.Position) error {
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Position already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePositions(ctx)
	return nil
}
