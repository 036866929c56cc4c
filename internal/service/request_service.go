package service

import (
	"context"
	"strings"
	"time"

	"domainreg/internal/cache"
	"domainreg/internal/models"
	"domainreg/internal/repository"
	"domainreg/internal/validation"

	"gorm.io/gorm"
)

// RequestService handles submission and decision of domain requests.
type RequestService struct {
	db          *gorm.DB
	requestRepo repository.DomainRequestRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
	now         func() time.Time
}

type SubmitRequestInput struct {
	UserID          uint
	Domain          string
	Purpose         string
	IPAddress       string
	RequesterName   string
	ResponsibleName string
	Department      string
	Contact         string
	ContactType     string
	DurationType    string
	ExpiresAt       *time.Time
}

type DecideRequestInput struct {
	RequestID uint
	Approve   bool
}

type DeleteRequestInput struct {
	UserID    uint
	RequestID uint
}

func NewRequestService(
	db *gorm.DB,
	requestRepo repository.DomainRequestRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	now func() time.Time,
) *RequestService {
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		db:          db,
		requestRepo: requestRepo,
		isAdmin:     isAdmin,
		now:         now,
	}
}

// Submit creates a PENDING domain request. Domain names are stored
// lowercased; duplicate domain or IP submissions are rejected up front.
func (s *RequestService) Submit(ctx context.Context, in SubmitRequestInput) (*models.DomainRequest, error) {
	domain := strings.ToLower(strings.TrimSpace(in.Domain))

	if in.Purpose == "" || in.IPAddress == "" || in.RequesterName == "" ||
		in.ResponsibleName == "" || in.Department == "" || in.Contact == "" {
		return nil, models.NewValidationError("All request fields are required")
	}
	if err := validation.ValidateDomainName(domain); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateIPAddress(in.IPAddress); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	durationType := models.DurationType(in.DurationType)
	switch durationType {
	case models.DurationPermanent, models.DurationTemporary:
	default:
		return nil, models.NewValidationError("duration_type must be PERMANENT or TEMPORARY")
	}

	var expiresAt *time.Time
	if durationType == models.DurationTemporary {
		if in.ExpiresAt == nil {
			return nil, models.NewValidationError("Expiry date is required for temporary domains")
		}
		if !in.ExpiresAt.After(s.now()) {
			return nil, models.NewValidationError("Expiry date must be in the future")
		}
		expiresAt = in.ExpiresAt
	}

	taken, err := s.requestRepo.ExistsByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Domain has already been requested")
	}

	ipTaken, err := s.requestRepo.ExistsByIPAddress(ctx, in.IPAddress)
	if err != nil {
		return nil, err
	}
	if ipTaken {
		return nil, models.NewConflictError("IP address is already in use by another domain")
	}

	contactType := in.ContactType
	if contactType == "" {
		contactType = models.ContactTypeEmail
	}

	request := &models.DomainRequest{
		Domain:          domain,
		Purpose:         in.Purpose,
		IPAddress:       in.IPAddress,
		RequesterName:   in.RequesterName,
		ResponsibleName: in.ResponsibleName,
		Department:      in.Department,
		Contact:         in.Contact,
		ContactType:     contactType,
		DurationType:    durationType,
		ExpiresAt:       expiresAt,
		Status:          models.RequestStatusPending,
		UserID:          in.UserID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) List(ctx context.Context) ([]models.DomainRequest, error) {
	return s.requestRepo.List(ctx)
}

func (s *RequestService) ListMine(ctx context.Context, userID uint) ([]models.DomainRequest, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// Decide applies an admin decision to a PENDING request. Approval creates
// the Domain record in the same transaction. The status update is
// conditioned on the request still being PENDING; a concurrent decision
// surfaces as Conflict.
func (s *RequestService) Decide(ctx context.Context, in DecideRequestInput) (*models.DomainRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}

	newStatus := models.RequestStatusRejected
	if in.Approve {
		newStatus = models.RequestStatusApproved
	}
	now := s.now()
	cooldown := now.Add(DecisionCooldown)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DomainRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
			Updates(map[string]any{
				"status":               newStatus,
				"approval_cooldown_at": cooldown,
				"updated_at":           now,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Request has already been decided")
		}

		if in.Approve {
			record := &models.Domain{
				DomainRequestID: request.ID,
				Status:          models.DomainStatusActive,
				LastUsedAt:      now,
			}
			if err := tx.Create(record).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateDomainList(ctx)
	return s.requestRepo.GetByID(ctx, request.ID)
}

// Delete removes a request and its domain record. Owners may delete their
// own request as long as it was not approved; admins may delete any.
func (s *RequestService) Delete(ctx context.Context, in DeleteRequestInput) error {
	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return err
	}

	if request.UserID != in.UserID {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own requests")
		}
	} else if request.Status == models.RequestStatusApproved {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewValidationError("Approved requests can only be removed by an admin")
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("domain_id IN (?)",
			tx.Model(&models.Domain{}).Select("id").Where("domain_request_id = ?", request.ID),
		).Delete(&models.RenewalRequest{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("domain_request_id = ?", request.ID).
			Delete(&models.Domain{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.DomainRequest{}, request.ID).Error; err != nil {
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
