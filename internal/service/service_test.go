package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"domainreg/internal/models"
	"domainreg/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Position{},
		&models.User{},
		&models.DomainRequest{},
		&models.Domain{},
		&models.RenewalRequest{},
		&models.DeletedDomainLog{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// fakeClock lets tests drive time-based transitions deterministically.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// isAdminFromDB resolves the admin check against the users table, the same
// way the server wires it.
func isAdminFromDB(db *gorm.DB) func(ctx context.Context, userID uint) (bool, error) {
	return func(ctx context.Context, userID uint) (bool, error) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return false, err
		}
		return user.IsAdmin(), nil
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "pass" + username, Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

var testIPCounter uint32

func createTestRequest(t *testing.T, db *gorm.DB, userID uint, domain string, durationType models.DurationType, expiresAt *time.Time) *models.DomainRequest {
	t.Helper()
	request := &models.DomainRequest{
		Domain:          domain,
		Purpose:         "test purpose",
		IPAddress:       fmt.Sprintf("10.0.0.%d", atomic.AddUint32(&testIPCounter, 1)),
		RequesterName:   "Requester",
		ResponsibleName: "Responsible",
		Department:      "IT",
		Contact:         "it@example.ac.th",
		ContactType:     models.ContactTypeEmail,
		DurationType:    durationType,
		ExpiresAt:       expiresAt,
		Status:          models.RequestStatusPending,
		UserID:          userID,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return request
}

// approveRequest runs the real approval path so tests start from a state
// the lifecycle itself can produce.
func approveRequest(t *testing.T, db *gorm.DB, clock *fakeClock, requestID uint) *models.Domain {
	t.Helper()
	svc := NewRequestService(db, repository.NewDomainRequestRepository(db), isAdminFromDB(db), clock.Now)
	if _, err := svc.Decide(context.Background(), DecideRequestInput{RequestID: requestID, Approve: true}); err != nil {
		t.Fatalf("approve request: %v", err)
	}
	var domain models.Domain
	if err := db.Where("domain_request_id = ?", requestID).First(&domain).Error; err != nil {
		t.Fatalf("load created domain: %v", err)
	}
	return &domain
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}
