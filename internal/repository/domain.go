package repository

import (
	"context"
	"errors"
	"time"

	"domainreg/internal/models"

	"gorm.io/gorm"
)

// DomainRepository defines persistence operations for provisioned domains.
type DomainRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Domain, error)
	GetByRequestID(ctx context.Context, requestID uint) (*models.Domain, error)
	List(ctx context.Context) ([]models.Domain, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]models.Domain, error)
	ListPurgeable(ctx context.Context, now time.Time) ([]models.Domain, error)
}

type domainRepository struct {
	db *gorm.DB
}

// NewDomainRepository returns a new DomainRepository implementation.
func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{db: db}
}

func (r *domainRepository) GetByID(ctx context.Context, id uint) (*models.Domain, error) {
	var domain models.Domain
	if err := r.db.WithContext(ctx).
		Preload("DomainRequest").
		Preload("DomainRequest.User").
		First(&domain, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Domain", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &domain, nil
}

func (r *domainRepository) GetByRequestID(ctx context.Context, requestID uint) (*models.Domain, error) {
	var domain models.Domain
	if err := r.db.WithContext(ctx).
		Preload("DomainRequest").
		Where("domain_request_id = ?", requestID).
		First(&domain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Domain for request", requestID)
		}
		return nil, models.NewInternalError(err)
	}
	return &domain, nil
}

func (r *domainRepository) List(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	if err := r.db.WithContext(ctx).
		Preload("DomainRequest").
		Preload("DomainRequest.User").
		Order("created_at DESC").
		Find(&domains).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return domains, nil
}

// ListExpiredActive returns ACTIVE domains whose temporary request expiry has
// already passed. The sweeper moves these to trash.
func (r *domainRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.Domain, error) {
	var domains []models.Domain
	if err := r.db.WithContext(ctx).
		Preload("DomainRequest").
		Joins("JOIN domain_requests ON domain_requests.id = domains.domain_request_id").
		Where("domains.status = ?", models.DomainStatusActive).
		Where("domain_requests.duration_type = ?", models.DurationTemporary).
		Where("domain_requests.expires_at IS NOT NULL AND domain_requests.expires_at < ?", now).
		Find(&domains).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return domains, nil
}

// ListPurgeable returns TRASHED domains whose retention window has elapsed.
func (r *domainRepository) ListPurgeable(ctx context.Context, now time.Time) ([]models.Domain, error) {
	var domains []models.Domain
	if err := r.db.WithContext(ctx).
		Preload("DomainRequest").
		Where("status = ?", models.DomainStatusTrashed).
		Where("trash_expires_at IS NOT NULL AND trash_expires_at < ?", now).
		Find(&domains).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return domains, nil
}
