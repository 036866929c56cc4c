package service

import (
	"context"
	"time"

	"domainreg/internal/cache"
	"domainreg/internal/models"
	"domainreg/internal/repository"

	"gorm.io/gorm"
)

// DomainService handles lifecycle transitions of provisioned domains.
type DomainService struct {
	db         *gorm.DB
	domainRepo repository.DomainRepository
	logRepo    repository.DeletedDomainLogRepository
	now        func() time.Time
}

type RestoreDomainInput struct {
	DomainID     uint
	DurationType string
	ExpiresAt    *time.Time
}

type RenewOwnedInput struct {
	UserID    uint
	RequestID uint
	ExpiresAt time.Time
}

// TrashOrPurgeResult names which of the two delete steps was taken.
type TrashOrPurgeResult string

const (
	ResultMovedToTrash       TrashOrPurgeResult = "moved_to_trash"
	ResultPermanentlyDeleted TrashOrPurgeResult = "permanently_deleted"
)

func NewDomainService(
	db *gorm.DB,
	domainRepo repository.DomainRepository,
	logRepo repository.DeletedDomainLogRepository,
	now func() time.Time,
) *DomainService {
	if now == nil {
		now = time.Now
	}
	return &DomainService{
		db:         db,
		domainRepo: domainRepo,
		logRepo:    logRepo,
		now:        now,
	}
}

// List returns all domains with their originating request. Statuses are
// reported as of the current time: an ACTIVE temporary domain past its
// expiry shows as EXPIRED without being mutated.
func (s *DomainService) List(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain

	err := cache.Aside(ctx, cache.DomainListKey, &domains, cache.DomainListTTL, func() error {
		var fetchErr error
		domains, fetchErr = s.domainRepo.List(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range domains {
		domains[i].Status = domains[i].EffectiveStatus(now)
	}
	return domains, nil
}

// TrashOrPurge implements two-step deletion. The first delete of an ACTIVE
// domain moves it to trash with a retention window; deleting an already
// TRASHED domain purges it permanently, writing an audit log entry and
// removing the originating request in the same transaction. Both updates
// are conditioned on the expected pre-state.
func (s *DomainService) TrashOrPurge(ctx context.Context, domainID uint) (TrashOrPurgeResult, error) {
	domain, err := s.domainRepo.GetByID(ctx, domainID)
	if err != nil {
		return "", err
	}

	now := s.now()
	var result TrashOrPurgeResult

	switch domain.Status {
	case models.DomainStatusActive:
		trashExpiry := now.Add(TrashRetention)
		res := s.db.WithContext(ctx).Model(&models.Domain{}).
			Where("id = ? AND status = ?", domain.ID, models.DomainStatusActive).
			Updates(map[string]any{
				"status":           models.DomainStatusTrashed,
				"deleted_at":       now,
				"trash_expires_at": trashExpiry,
				"updated_at":       now,
			})
		if res.Error != nil {
			return "", models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return "", models.NewConflictError("Domain state changed, retry the deletion")
		}
		result = ResultMovedToTrash

	case models.DomainStatusTrashed:
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("domain_id = ?", domain.ID).
				Delete(&models.RenewalRequest{}).Error; err != nil {
				return models.NewInternalError(err)
			}

			res := tx.Where("id = ? AND status = ?", domain.ID, models.DomainStatusTrashed).
				Delete(&models.Domain{})
			if res.Error != nil {
				return models.NewInternalError(res.Error)
			}
			if res.RowsAffected == 0 {
				return models.NewConflictError("Domain state changed, retry the deletion")
			}

			entry := &models.DeletedDomainLog{
				DomainName: domain.DomainRequest.Domain,
				Reason:     "Permanently deleted by admin from trash",
			}
			if err := tx.Create(entry).Error; err != nil {
				return models.NewInternalError(err)
			}

			if err := tx.Delete(&models.DomainRequest{}, domain.DomainRequestID).Error; err != nil {
				return models.NewInternalError(err)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		result = ResultPermanentlyDeleted

	default:
		return "", models.NewValidationError("Domain cannot be deleted in its current state")
	}

	cache.InvalidateDomainList(ctx)
	return result, nil
}

// Restore brings a TRASHED domain back to ACTIVE. The duration type must be
// re-selected; TEMPORARY requires a new future expiry, which replaces the
// request's prior one.
func (s *DomainService) Restore(ctx context.Context, in RestoreDomainInput) error {
	durationType := models.DurationType(in.DurationType)
	switch durationType {
	case models.DurationPermanent, models.DurationTemporary:
	default:
		return models.NewValidationError("duration_type must be PERMANENT or TEMPORARY")
	}

	now := s.now()
	var expiresAt *time.Time
	if durationType == models.DurationTemporary {
		if in.ExpiresAt == nil {
			return models.NewValidationError("Expiry date is required for temporary domains")
		}
		if !in.ExpiresAt.After(now) {
			return models.NewValidationError("Expiry date must be in the future")
		}
		expiresAt = in.ExpiresAt
	}

	domain, err := s.domainRepo.GetByID(ctx, in.DomainID)
	if err != nil {
		return err
	}
	if domain.Status != models.DomainStatusTrashed {
		return models.NewValidationError("Domain is not in trash")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Domain{}).
			Where("id = ? AND status = ?", domain.ID, models.DomainStatusTrashed).
			Updates(map[string]any{
				"status":           models.DomainStatusActive,
				"deleted_at":       nil,
				"trash_expires_at": nil,
				"updated_at":       now,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Domain state changed, retry the restore")
		}

		if err := tx.Model(&models.DomainRequest{}).
			Where("id = ?", domain.DomainRequestID).
			Updates(map[string]any{
				"duration_type": durationType,
				"expires_at":    expiresAt,
				"updated_at":    now,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateDomainList(ctx)
	return nil
}

// RenewOwned lets the owning user extend their temporary domain directly,
// updating the request expiry and reactivating the domain record if one
// exists. Admins use the renewal-request workflow instead.
func (s *DomainService) RenewOwned(ctx context.Context, in RenewOwnedInput) (*models.DomainRequest, error) {
	var request models.DomainRequest
	if err := s.db.WithContext(ctx).
		Preload("Record").
		First(&request, in.RequestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Domain request", in.RequestID)
		}
		return nil, models.NewInternalError(err)
	}

	if request.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only renew your own domains")
	}
	if request.DurationType != models.DurationTemporary {
		return nil, models.NewValidationError("Only temporary domains can be renewed")
	}
	now := s.now()
	if !in.ExpiresAt.After(now) {
		return nil, models.NewValidationError("Expiry date must be in the future")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DomainRequest{}).
			Where("id = ?", request.ID).
			Updates(map[string]any{
				"expires_at": in.ExpiresAt,
				"updated_at": now,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}

		if request.Record != nil {
			if err := tx.Model(&models.Domain{}).
				Where("id = ?", request.Record.ID).
				Updates(map[string]any{
					"status":           models.DomainStatusActive,
					"deleted_at":       nil,
					"trash_expires_at": nil,
					"updated_at":       now,
				}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateDomainList(ctx)

	if err := s.db.WithContext(ctx).Preload("Record").First(&request, request.ID).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}
