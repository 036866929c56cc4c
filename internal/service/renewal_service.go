package service

import (
	"context"
	"time"

	"domainreg/internal/cache"
	"domainreg/internal/models"
	"domainreg/internal/repository"

	"gorm.io/gorm"
)

// RenewalService handles the renewal-request workflow.
type RenewalService struct {
	db          *gorm.DB
	renewalRepo repository.RenewalRequestRepository
	domainRepo  repository.DomainRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
	now         func() time.Time
}

type CreateRenewalInput struct {
	UserID        uint
	DomainID      uint
	NewExpiryDate time.Time
	Reason        string
}

type ListRenewalsInput struct {
	UserID   uint
	MineOnly bool
}

type DecideRenewalInput struct {
	RenewalID uint
	Approve   bool
}

type DeleteRenewalInput struct {
	UserID    uint
	RenewalID uint
}

func NewRenewalService(
	db *gorm.DB,
	renewalRepo repository.RenewalRequestRepository,
	domainRepo repository.DomainRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	now func() time.Time,
) *RenewalService {
	if now == nil {
		now = time.Now
	}
	return &RenewalService{
		db:          db,
		renewalRepo: renewalRepo,
		domainRepo:  domainRepo,
		isAdmin:     isAdmin,
		now:         now,
	}
}

// Create submits a renewal request for a domain. The caller must own the
// domain's originating request or be an admin, the new expiry must lie in
// the future, and at most one PENDING renewal may exist per domain.
func (s *RenewalService) Create(ctx context.Context, in CreateRenewalInput) (*models.RenewalRequest, error) {
	if in.DomainID == 0 {
		return nil, models.NewValidationError("domain_id is required")
	}
	if in.NewExpiryDate.IsZero() {
		return nil, models.NewValidationError("new_expiry_date is required")
	}
	if !in.NewExpiryDate.After(s.now()) {
		return nil, models.NewValidationError("New expiry date must be in the future")
	}

	domain, err := s.domainRepo.GetByID(ctx, in.DomainID)
	if err != nil {
		return nil, err
	}

	if domain.DomainRequest == nil || domain.DomainRequest.UserID != in.UserID {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("You cannot renew this domain")
		}
	}

	pending, err := s.renewalRepo.HasPendingForDomain(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.NewConflictError("A pending renewal request already exists for this domain")
	}

	renewal := &models.RenewalRequest{
		DomainID:      domain.ID,
		UserID:        in.UserID,
		NewExpiryDate: in.NewExpiryDate,
		Reason:        in.Reason,
		Status:        models.RenewalStatusPending,
	}
	if err := s.renewalRepo.Create(ctx, renewal); err != nil {
		return nil, err
	}
	return s.renewalRepo.GetByID(ctx, renewal.ID)
}

// List returns renewal requests. Admins see everything unless they ask for
// their own; regular users always see only their own.
func (s *RenewalService) List(ctx context.Context, in ListRenewalsInput) ([]models.RenewalRequest, error) {
	if !in.MineOnly {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if admin {
			return s.renewalRepo.List(ctx)
		}
	}
	return s.renewalRepo.ListByUser(ctx, in.UserID)
}

// Decide applies an admin decision to a PENDING renewal. Approval updates
// the owning request's expiry to the requested date and reactivates the
// domain in the same transaction; rejection only stamps the cooldown. The
// status update is conditioned on the renewal still being PENDING.
func (s *RenewalService) Decide(ctx context.Context, in DecideRenewalInput) (*models.RenewalRequest, error) {
	renewal, err := s.renewalRepo.GetByID(ctx, in.RenewalID)
	if err != nil {
		return nil, err
	}

	newStatus := models.RenewalStatusRejected
	if in.Approve {
		newStatus = models.RenewalStatusApproved
	}
	now := s.now()
	cooldown := now.Add(DecisionCooldown)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RenewalRequest{}).
			Where("id = ? AND status = ?", renewal.ID, models.RenewalStatusPending).
			Updates(map[string]any{
				"status":               newStatus,
				"approval_cooldown_at": cooldown,
				"updated_at":           now,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Renewal request has already been decided")
		}

		if !in.Approve {
			return nil
		}

		if renewal.Domain == nil {
			return models.NewInternalError(gorm.ErrRecordNotFound)
		}
		if err := tx.Model(&models.DomainRequest{}).
			Where("id = ?", renewal.Domain.DomainRequestID).
			Updates(map[string]any{
				"expires_at": renewal.NewExpiryDate,
				"updated_at": now,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}

		// Reactivate the domain if it was expired or trashed.
		if err := tx.Model(&models.Domain{}).
			Where("id = ?", renewal.DomainID).
			Updates(map[string]any{
				"status":           models.DomainStatusActive,
				"deleted_at":       nil,
				"trash_expires_at": nil,
				"updated_at":       now,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateDomainList(ctx)
	return s.renewalRepo.GetByID(ctx, renewal.ID)
}

// Delete removes a renewal request. Only the submitter or an admin may
// delete, and only while the request is still PENDING.
func (s *RenewalService) Delete(ctx context.Context, in DeleteRenewalInput) error {
	renewal, err := s.renewalRepo.GetByID(ctx, in.RenewalID)
	if err != nil {
		return err
	}

	if renewal.UserID != in.UserID {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You cannot delete this renewal request")
		}
	}

	if renewal.Status != models.RenewalStatusPending {
		return models.NewValidationError("Only pending renewal requests can be deleted")
	}

	return s.renewalRepo.Delete(ctx, renewal.ID)
}
