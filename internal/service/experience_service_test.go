package service

import (
	"context"
	"testing"

	"campushire/internal/models"
	"campushire/internal/repository"
	"campushire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestExperienceService_CreateAndRead(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author@college.edu", func(u *models.User) { u.FullName = "Ravi" })

	exp, err := svc.Create(ctx, author.ID, ExperienceInput{
		CompanyName: " Acme ",
		Role:        "SDE",
		FinalResult: models.ResultSelected,
		QuestionsAsked: models.QuestionsByCategory{
			{Category: "DSA", Questions: []string{"two sum"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", exp.CompanyName)
	assert.False(t, exp.IsApproved)
	assert.False(t, exp.IsPublished)
	assert.Equal(t, "Ravi", exp.UserName)

	anon, err := svc.Create(ctx, author.ID, ExperienceInput{
		CompanyName: "Acme", Role: "SDE", FinalResult: models.ResultRejected, IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.Empty(t, anon.UserName)

	got, err := svc.Get(ctx, anon.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UserName)

	mine, err := svc.ListMine(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	published, err := svc.List(ctx, repository.ExperienceFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = svc.Create(ctx, author.ID, ExperienceInput{CompanyName: "Acme", Role: "SDE", FinalResult: "Maybe"})
	requireCode(t, err, models.CodeValidation)

	_, err = svc.Get(ctx, 999)
	requireCode(t, err, models.CodeNotFound)
}

func TestExperienceService_UpdateRules(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@college.edu")
	other := testutil.CreateUser(t, db, "other@college.edu")
	pending := testutil.CreateExperience(t, db, owner.ID)
	approved := testutil.CreateExperience(t, db, owner.ID, func(e *models.Experience) {
		e.IsApproved, e.IsPublished = true, true
	})

	role := "Senior SDE"
	updated, err := svc.Update(ctx, owner.ID, pending.ID, ExperienceUpdateInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Senior SDE", updated.Role)
	assert.Equal(t, "Acme", updated.CompanyName)

	_, err = svc.Update(ctx, owner.ID, 999, ExperienceUpdateInput{Role: &role})
	requireCode(t, err, models.CodeNotFound)

	_, err = svc.Update(ctx, other.ID, pending.ID, ExperienceUpdateInput{Role: &role})
	requireCode(t, err, models.CodeForbidden)

	_, err = svc.Update(ctx, owner.ID, approved.ID, ExperienceUpdateInput{Role: &role})
	requireCode(t, err, models.CodeValidation)

	bad := "Pending"
	_, err = svc.Update(ctx, owner.ID, pending.ID, ExperienceUpdateInput{FinalResult: &bad})
	requireCode(t, err, models.CodeValidation)
}

func TestExperienceService_UpdateLosesToConcurrentApproval(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@college.edu")
	exp := testutil.CreateExperience(t, db, owner.ID)

	// Approve the row right after the owner's read, on the same connection.
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:approve_after_read", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "experiences" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE experiences SET is_approved = ?, is_published = ? WHERE id = ?", true, true, exp.ID)
	}))

	role := "Senior SDE"
	_, err := svc.Update(ctx, owner.ID, exp.ID, ExperienceUpdateInput{Role: &role})
	requireCode(t, err, models.CodeValidation)
	assert.Equal(t, "Cannot update approved experience", err.Error())
	require.True(t, fired)

	var stored models.Experience
	require.NoError(t, db.First(&stored, exp.ID).Error)
	assert.True(t, stored.IsApproved)
	assert.True(t, stored.IsPublished)
	assert.Equal(t, exp.Role, stored.Role)
}

func TestExperienceService_UpdateKeepsModerationFlags(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@college.edu")
	exp := testutil.CreateExperience(t, db, owner.ID, func(e *models.Experience) { e.IsPublished = true })

	anonymous := true
	updated, err := svc.Update(ctx, owner.ID, exp.ID, ExperienceUpdateInput{IsAnonymous: &anonymous})
	require.NoError(t, err)
	assert.True(t, updated.IsAnonymous)

	var stored models.Experience
	require.NoError(t, db.First(&stored, exp.ID).Error)
	assert.True(t, stored.IsAnonymous)
	assert.True(t, stored.IsPublished)
	assert.False(t, stored.IsApproved)
}

func TestExperienceService_Bookmarks(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "reader@college.edu")
	exp := testutil.CreateExperience(t, db, u.ID)

	require.NoError(t, svc.Bookmark(ctx, u.ID, exp.ID))
	requireCode(t, svc.Bookmark(ctx, u.ID, exp.ID), models.CodeValidation)
	requireCode(t, svc.Bookmark(ctx, u.ID, 999), models.CodeNotFound)

	saved, err := svc.Bookmarks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, exp.ID, saved[0].ID)

	require.NoError(t, svc.RemoveBookmark(ctx, u.ID, exp.ID))
	requireCode(t, svc.RemoveBookmark(ctx, u.ID, exp.ID), models.CodeNotFound)

	saved, err = svc.Bookmarks(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestExperienceService_BookmarksInSaveOrder(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewExperienceService(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "reader@college.edu")
	older := testutil.CreateExperience(t, db, u.ID, func(e *models.Experience) { e.CompanyName = "Older" })
	newer := testutil.CreateExperience(t, db, u.ID, func(e *models.Experience) { e.CompanyName = "Newer" })

	// Save the older experience last; it should lead the list.
	require.NoError(t, svc.Bookmark(ctx, u.ID, newer.ID))
	require.NoError(t, svc.Bookmark(ctx, u.ID, older.ID))

	saved, err := svc.Bookmarks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, []uint{older.ID, newer.ID}, []uint{saved[0].ID, saved[1].ID})
}
