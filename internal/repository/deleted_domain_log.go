package repository

import (
	"context"

	"domainreg/internal/models"

	"gorm.io/gorm"
)

// DeletedDomainLogRepository defines persistence operations for the purge audit log.
type DeletedDomainLogRepository interface {
	Create(ctx context.Context, entry *models.DeletedDomainLog) error
	List(ctx context.Context, limit int) ([]models.DeletedDomainLog, error)
}

type deletedDomainLogRepository struct {
	db *gorm.DB
}

// NewDeletedDomainLogRepository returns a new DeletedDomainLogRepository implementation.
func NewDeletedDomainLogRepository(db *gorm.DB) DeletedDomainLogRepository {
	return &deletedDomainLogRepository{db: db}
}

func (r *deletedDomainLogRepository) Create(ctx context.Context, entry *models.DeletedDomainLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *deletedDomainLogRepository) List(ctx context.Context, limit int) ([]models.DeletedDomainLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.DeletedDomainLog
	if err := r.db.WithContext(ctx).
		Order("deleted_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
