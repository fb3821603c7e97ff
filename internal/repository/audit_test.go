package repository

import (
	"context"
	"testing"

	"campushire/internal/models"
	"campushire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	for i, action := range []string{models.ActionApprove, models.ActionReject, models.ActionApprove} {
		require.NoError(t, repo.Create(ctx, &models.AuditLog{
			AdminID:    1,
			Action:     action,
			EntityType: models.EntityExperience,
			EntityID:   uint(i + 1),
			Details:    map[string]any{"reason": "ok"},
		}))
	}

	logs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, uint(3), logs[0].EntityID)
	assert.Equal(t, uint(2), logs[1].EntityID)
	assert.Equal(t, "ok", logs[0].Details["reason"])

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forOne, err := repo.ListForEntity(ctx, models.EntityExperience, 2)
	require.NoError(t, err)
	require.Len(t, forOne, 1)
	assert.Equal(t, models.ActionReject, forOne[0].Action)
}

func TestAdminRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	missing, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	admin := &models.Admin{Email: "admin@example.com", HashedPassword: "x", Role: models.AdminRoleSuperAdmin}
	require.NoError(t, repo.Create(ctx, admin))

	err = repo.Create(ctx, &models.Admin{Email: "admin@example.com", HashedPassword: "y"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.AdminRoleSuperAdmin, got.Role)
	assert.True(t, got.IsActive)
}
