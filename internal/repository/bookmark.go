package repository

import (
	"context"
	"errors"

	"campushire/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	Get(ctx context.Context, userID, experienceID uint) (*models.Bookmark, error)
	Create(ctx context.Context, b *models.Bookmark) error
	Delete(ctx context.Context, userID, experienceID uint) error
	ExperienceIDs(ctx context.Context, userID uint) ([]uint, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository returns a new BookmarkRepository implementation.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Get returns (nil, nil) when the pair is not bookmarked.
func (r *bookmarkRepository) Get(ctx context.Context, userID, experienceID uint) (*models.Bookmark, error) {
	var b models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &b, nil
}

func (r *bookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Already bookmarked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, experienceID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.AppError{Code: models.CodeNotFound, Message: "Bookmark not found"}
	}
	return nil
}

func (r *bookmarkRepository) ExperienceIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Pluck("experience_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
