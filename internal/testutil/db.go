// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"campushire/internal/database"
	"campushire/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory database. The pool is pinned to one
// connection so every query sees the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a verified, active user with the given email.
func CreateUser(t *testing.T, db *gorm.DB, email string, mutate ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		FullName:       "Test User",
		Email:          email,
		HashedPassword: "x",
		IsVerified:     true,
		IsActive:       true,
	}
	for _, m := range mutate {
		m(u)
	}
	u.RecomputeCompletion()
	active := u.IsActive
	require.NoError(t, db.Create(u).Error)
	// is_active carries a default, so a false value is skipped on insert.
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
		u.IsActive = false
	}
	return u
}

// CreateExperience inserts an experience owned by userID.
func CreateExperience(t *testing.T, db *gorm.DB, userID uint, mutate ...func(*models.Experience)) *models.Experience {
	t.Helper()
	e := &models.Experience{
		UserID:      userID,
		CompanyName: "Acme",
		Role:        "SDE",
		FinalResult: models.ResultSelected,
	}
	for _, m := range mutate {
		m(e)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}
