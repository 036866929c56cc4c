package seed

import (
	"testing"
	"time"

	"domainreg/internal/database"
	"domainreg/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func TestBaseline(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Baseline())

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, "admin123", admin.Password)

	var userCount, positionCount, requestCount, domainCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Position{}).Count(&positionCount).Error)
	require.NoError(t, db.Model(&models.DomainRequest{}).Count(&requestCount).Error)
	require.NoError(t, db.Model(&models.Domain{}).Count(&domainCount).Error)
	require.EqualValues(t, 3, userCount)
	require.EqualValues(t, 6, positionCount)
	require.EqualValues(t, 3, requestCount)
	require.EqualValues(t, 2, domainCount)

	// The expired temporary fixture is visible to the sweeper.
	var expired []models.Domain
	require.NoError(t, db.
		Joins("JOIN domain_requests ON domain_requests.id = domains.domain_request_id").
		Where("domains.status = ?", models.DomainStatusActive).
		Where("domain_requests.duration_type = ?", models.DurationTemporary).
		Where("domain_requests.expires_at < ?", time.Now()).
		Find(&expired).Error)
	require.Len(t, expired, 1)
}

func TestPopulate(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Baseline())
	require.NoError(t, s.Populate(5))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.EqualValues(t, 8, userCount)

	// Every approved request has exactly one domain record.
	var orphaned int64
	require.NoError(t, db.Model(&models.DomainRequest{}).
		Where("status = ?", models.RequestStatusApproved).
		Where("id NOT IN (?)", db.Model(&models.Domain{}).Select("domain_request_id")).
		Count(&orphaned).Error)
	require.Zero(t, orphaned)
}

func TestClearAll(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Baseline())
	require.NoError(t, s.ClearAll())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.Zero(t, userCount)
}
