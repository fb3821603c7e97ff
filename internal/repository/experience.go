package repository

import (
	"context"

	"campushire/internal/models"

	"gorm.io/gorm"
)

// ExperienceFilter narrows experience listings. Zero values mean "no filter".
type ExperienceFilter struct {
	CompanyName   string
	Role          string
	UserID        uint
	IDs           []uint
	PublishedOnly bool
	// Approved, when set, keeps only rows whose is_approved matches.
	Approved *bool
}

// ExperienceRepository defines persistence operations for experiences.
type ExperienceRepository interface {
	Create(ctx context.Context, exp *models.Experience) error
	GetByID(ctx context.Context, id uint) (*models.Experience, error)
	UpdateOwned(ctx context.Context, exp *models.Experience) (bool, error)
	SetModeration(ctx context.Context, id uint, approved, published bool) error
	List(ctx context.Context, f ExperienceFilter) ([]models.Experience, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Experience, error)
}

type experienceRepository struct {
	db *gorm.DB
}

// NewExperienceRepository returns a new ExperienceRepository implementation.
func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(ctx context.Context, exp *models.Experience) error {
	if err := r.db.WithContext(ctx).Create(exp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *experienceRepository) GetByID(ctx context.Context, id uint) (*models.Experience, error) {
	var exp models.Experience
	if err := r.db.WithContext(ctx).First(&exp, id).Error; err != nil {
		return nil, lookupError(err, "Experience", id)
	}
	return &exp, nil
}

// ownerColumns are the columns an author may change. Moderation flags are
// written only through SetModeration.
var ownerColumns = []string{
	"company_name", "role", "package_offered", "interview_rounds", "questions_asked",
	"preparation_strategy", "resources_followed", "rejection_reasons", "final_result",
	"is_anonymous", "updated_at",
}

// UpdateOwned writes the author-editable columns of exp, but only while the
// row still belongs to exp.UserID and is unapproved. It reports whether a
// row was written.
func (r *experienceRepository) UpdateOwned(ctx context.Context, exp *models.Experience) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Experience{}).
		Where("id = ? AND user_id = ? AND is_approved = ?", exp.ID, exp.UserID, false).
		Select(ownerColumns).
		Updates(exp)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetModeration writes the two moderation flags of one experience.
func (r *experienceRepository) SetModeration(ctx context.Context, id uint, approved, published bool) error {
	res := r.db.WithContext(ctx).Model(&models.Experience{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_approved": approved, "is_published": published})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Experience", id)
	}
	return nil
}

// List returns matching experiences, newest first.
func (r *experienceRepository) List(ctx context.Context, f ExperienceFilter) ([]models.Experience, error) {
	q := r.db.WithContext(ctx).Model(&models.Experience{})
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.Approved != nil {
		q = q.Where("is_approved = ?", *f.Approved)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []models.Experience{}, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}
	if f.CompanyName != "" {
		q = q.Where(`LOWER(company_name) LIKE ? ESCAPE '\'`, containsPattern(f.CompanyName))
	}
	if f.Role != "" {
		q = q.Where(`LOWER(role) LIKE ? ESCAPE '\'`, containsPattern(f.Role))
	}

	var exps []models.Experience
	if err := q.Order("created_at DESC").Order("id DESC").Find(&exps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return exps, nil
}

func (r *experienceRepository) ListByUser(ctx context.Context, userID uint) ([]models.Experience, error) {
	return r.List(ctx, ExperienceFilter{UserID: userID})
}
