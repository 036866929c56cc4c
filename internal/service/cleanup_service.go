package service

import (
	"context"
	"log/slog"
	"time"

	"domainreg/internal/cache"
	"domainreg/internal/middleware"
	"domainreg/internal/models"
	"domainreg/internal/repository"

	"gorm.io/gorm"
)

// CleanupService is the retention sweeper. It drives time-based lifecycle
// transitions in two passes: expired temporary domains move to trash, and
// trash past its retention window is permanently purged.
type CleanupService struct {
	db         *gorm.DB
	domainRepo repository.DomainRepository
	now        func() time.Time
}

// CleanupResult reports what a sweep did.
type CleanupResult struct {
	Trashed   int       `json:"expired_domains_moved_to_trash"`
	Purged    int       `json:"domains_deleted_permanently"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCleanupService(
	db *gorm.DB,
	domainRepo repository.DomainRepository,
	now func() time.Time,
) *CleanupService {
	if now == nil {
		now = time.Now
	}
	return &CleanupService{
		db:         db,
		domainRepo: domainRepo,
		now:        now,
	}
}

// Run executes one sweep. Each transition is conditioned on the domain's
// expected pre-state, so a concurrent admin action or a second sweep simply
// skips the record. Running the sweep twice in succession is a no-op the
// second time.
func (s *CleanupService) Run(ctx context.Context) (CleanupResult, error) {
	now := s.now()
	result := CleanupResult{Timestamp: now}

	expired, err := s.domainRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return result, err
	}
	trashExpiry := now.Add(TrashRetention)
	for _, domain := range expired {
		res := s.db.WithContext(ctx).Model(&models.Domain{}).
			Where("id = ? AND status = ?", domain.ID, models.DomainStatusActive).
			Updates(map[string]any{
				"status":           models.DomainStatusTrashed,
				"deleted_at":       now,
				"trash_expires_at": trashExpiry,
				"updated_at":       now,
			})
		if res.Error != nil {
			return result, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		result.Trashed++
		middleware.SweepTransitions.WithLabelValues("trashed").Inc()
	}

	purgeable, err := s.domainRepo.ListPurgeable(ctx, now)
	if err != nil {
		return result, err
	}
	for _, domain := range purgeable {
		domainName := ""
		if domain.DomainRequest != nil {
			domainName = domain.DomainRequest.Domain
		}

		// Log + delete Domain + delete DomainRequest is one atomic unit
		// per domain; a failure rolls all three back.
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("domain_id = ?", domain.ID).
				Delete(&models.RenewalRequest{}).Error; err != nil {
				return err
			}

			res := tx.Where("id = ? AND status = ? AND trash_expires_at < ?",
				domain.ID, models.DomainStatusTrashed, now).
				Delete(&models.Domain{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errAlreadyHandled
			}

			entry := &models.DeletedDomainLog{
				DomainName: domainName,
				Reason:     "Expired and cleaned up after 90 days in trash",
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}

			return tx.Delete(&models.DomainRequest{}, domain.DomainRequestID).Error
		})
		if err == errAlreadyHandled {
			continue
		}
		if err != nil {
			return result, models.NewInternalError(err)
		}
		result.Purged++
		middleware.SweepTransitions.WithLabelValues("purged").Inc()
	}

	cache.InvalidateDomainList(ctx)

	middleware.Logger.InfoContext(ctx, "Retention sweep completed",
		slog.Int("trashed", result.Trashed),
		slog.Int("purged", result.Purged),
	)
	return result, nil
}

// errAlreadyHandled aborts a purge transaction for a domain another actor
// already removed. It never escapes Run.
var errAlreadyHandled = models.NewConflictError("domain already handled")
