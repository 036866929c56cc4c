package repository

import (
	"context"
	"errors"

	"domainreg/internal/models"

	"gorm.io/gorm"
)

// DomainRequestRepository defines persistence operations for domain requests.
type DomainRequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.DomainRequest, error)
	ExistsByDomain(ctx context.Context, domain string) (bool, error)
	ExistsByIPAddress(ctx context.Context, ip string) (bool, error)
	Create(ctx context.Context, request *models.DomainRequest) error
	List(ctx context.Context) ([]models.DomainRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.DomainRequest, error)
}

type domainRequestRepository struct {
	db *gorm.DB
}

// NewDomainRequestRepository returns a new DomainRequestRepository implementation.
func NewDomainRequestRepository(db *gorm.DB) DomainRequestRepository {
	return &domainRequestRepository{db: db}
}

func (r *domainRequestRepository) GetByID(ctx context.Context, id uint) (*models.DomainRequest, error) {
	var request models.DomainRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Record").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Domain request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *domainRequestRepository) ExistsByDomain(ctx context.Context, domain string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DomainRequest{}).
		Where("domain = ?", domain).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *domainRequestRepository) ExistsByIPAddress(ctx context.Context, ip string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DomainRequest{}).
		Where("ip_address = ?", ip).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *domainRequestRepository) Create(ctx context.Context, request *models.DomainRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Domain has already been requested")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *domainRequestRepository) List(ctx context.Context) ([]models.DomainRequest, error) {
	var requests []models.DomainRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Record").
		Order("requested_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *domainRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.DomainRequest, error) {
	var requests []models.DomainRequest
	if err := r.db.WithContext(ctx).
		Preload("Record").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}
