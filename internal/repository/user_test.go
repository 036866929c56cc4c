package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"domainreg/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "role"}).
					AddRow(1, "admin", "ADMIN")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
				assert.Equal(t, tt.expectedUser.Role, user.Role)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "password"}).
			AddRow(2, "user01", "passuser01")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
			WithArgs("user01", 1).
			WillReturnRows(rows)

		user, err := repo.GetByUsername(ctx, "user01")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user01", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
			WithArgs("ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByUsername(ctx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user := &models.User{Username: "newuser", Password: "secret", Role: models.RoleUser}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Create(ctx, user)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate username maps to conflict", func(t *testing.T) {
		user := &models.User{Username: "admin", Password: "secret", Role: models.RoleUser}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`))
		mock.ExpectRollback()

		err := repo.Create(ctx, user)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()

	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(errors.New("ERROR: duplicate key value violates unique constraint")))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
}
