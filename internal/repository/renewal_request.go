package repository

import (
	"context"
	"errors"

	"domainreg/internal/models"

	"gorm.io/gorm"
)

// RenewalRequestRepository defines persistence operations for renewal requests.
type RenewalRequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.RenewalRequest, error)
	HasPendingForDomain(ctx context.Context, domainID uint) (bool, error)
	Create(ctx context.Context, renewal *models.RenewalRequest) error
	List(ctx context.Context) ([]models.RenewalRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.RenewalRequest, error)
	Delete(ctx context.Context, id uint) error
}

type renewalRequestRepository struct {
	db *gorm.DB
}

// NewRenewalRequestRepository returns a new RenewalRequestRepository implementation.
func NewRenewalRequestRepository(db *gorm.DB) RenewalRequestRepository {
	return &renewalRequestRepository{db: db}
}

func (r *renewalRequestRepository) GetByID(ctx context.Context, id uint) (*models.RenewalRequest, error) {
	var renewal models.RenewalRequest
	if err := r.db.WithContext(ctx).
		Preload("Domain").
		Preload("Domain.DomainRequest").
		Preload("User").
		First(&renewal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Renewal request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &renewal, nil
}

func (r *renewalRequestRepository) HasPendingForDomain(ctx context.Context, domainID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RenewalRequest{}).
		Where("domain_id = ? AND status = ?", domainID, models.RenewalStatusPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *renewalRequestRepository) Create(ctx context.Context, renewal *models.RenewalRequest) error {
	if err := r.db.WithContext(ctx).Create(renewal).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *renewalRequestRepository) List(ctx context.Context) ([]models.RenewalRequest, error) {
	var renewals []models.RenewalRequest
	if err := r.db.WithContext(ctx).
		Preload("Domain").
		Preload("Domain.DomainRequest").
		Preload("User").
		Order("requested_at DESC").
		Find(&renewals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return renewals, nil
}

func (r *renewalRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.RenewalRequest, error) {
	var renewals []models.RenewalRequest
	if err := r.db.WithContext(ctx).
		Preload("Domain").
		Preload("Domain.DomainRequest").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&renewals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return renewals, nil
}

func (r *renewalRequestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.RenewalRequest{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
