package service

import (
	"context"
	"time"

	"domainreg/internal/models"
	"domainreg/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// UserService handles account administration and the position lookup.
// Passwords are stored and compared in plain text throughout; this is a
// documented product decision of the portal.
type UserService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	positionRepo repository.PositionRepository
	now          func() time.Time
}

type CreateUserInput struct {
	Username   string
	Role       string
	PositionID *uint
}

// CreatedUser carries the generated password back to the admin exactly once.
type CreatedUser struct {
	User     *models.User `json:"user"`
	Password string       `json:"password"`
}

type DeleteUserInput struct {
	AdminID uint
	UserID  uint
}

type ResetPasswordResult struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

type CreatePositionInput struct {
	Name        string
	Description string
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	positionRepo repository.PositionRepository,
	now func() time.Time,
) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{
		db:           db,
		userRepo:     userRepo,
		positionRepo: positionRepo,
		now:          now,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Create registers a new account with a generated password, which is
// returned to the calling admin for handover.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*CreatedUser, error) {
	if in.Username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	role := models.Role(in.Role)
	switch role {
	case models.RoleUser, models.RoleAdmin:
	default:
		return nil, models.NewValidationError("role must be USER or ADMIN")
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already exists")
	}

	password := generatePassword()
	user := &models.User{
		Username:   in.Username,
		Password:   password,
		Role:       role,
		PositionID: in.PositionID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &CreatedUser{User: user, Password: password}, nil
}

// Delete removes an account and everything it owns: domains created from
// the user's requests, the requests themselves, then the account. Admins
// cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, in DeleteUserInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if user.ID == in.AdminID {
		return models.NewValidationError("Cannot delete your own account")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requestIDs := tx.Model(&models.DomainRequest{}).Select("id").Where("user_id = ?", user.ID)

		if err := tx.Where("user_id = ?", user.ID).
			Or("domain_id IN (?)", tx.Model(&models.Domain{}).Select("id").Where("domain_request_id IN (?)", requestIDs)).
			Delete(&models.RenewalRequest{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("domain_request_id IN (?)", requestIDs).
			Delete(&models.Domain{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.DomainRequest{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// ResetPassword generates a fresh password for the user and returns it to
// the calling admin.
func (s *UserService) ResetPassword(ctx context.Context, userID uint) (*ResetPasswordResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newPassword := generatePassword()
	user.Password = newPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &ResetPasswordResult{
		Username:    user.Username,
		NewPassword: newPassword,
	}, nil
}

// ChangePassword lets a user replace their own password after confirming
// the current one.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Current and new password are required")
	}
	if len(in.NewPassword) < 6 {
		return models.NewValidationError("New password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if user.Password != in.CurrentPassword {
		return models.NewValidationError("Current password is incorrect")
	}

	user.Password = in.NewPassword
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) ListPositions(ctx context.Context) ([]models.Position, error) {
	return s.positionRepo.ListActive(ctx)
}

func (s *UserService) CreatePosition(ctx context.Context, in CreatePositionInput) (*models.Position, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Position name is required")
	}
	position := &models.Position{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
	}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

func generatePassword() string {
	return gofakeit.Password(true, true, true, false, false, 10)
}
