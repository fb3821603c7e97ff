package service

import (
	"context"
	"strings"

	"campushire/internal/models"
	"campushire/internal/repository"
	"campushire/internal/validation"

	"gorm.io/gorm"
)

// UserService manages the signed-in user's own profile.
type UserService struct {
	db *gorm.DB
}

// UpdateProfileInput carries the profile fields to change; nil leaves a
// field untouched.
type UpdateProfileInput struct {
	UserID      uint
	FullName    *string
	LinkedinID  *string
	GithubID    *string
	CollegeName *string
	Branch      *string
}

// ProfileCompletion reports which completion fields are filled.
type ProfileCompletion struct {
	Percentage int             `json:"percentage"`
	Completed  bool            `json:"completed"`
	Fields     map[string]bool `json:"fields"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return repository.NewUserRepository(s.db).GetByID(ctx, id)
}

// UpdateProfile applies in and recomputes profile completion in one transaction.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"full_name", in.FullName},
		{"linkedin_id", in.LinkedinID},
		{"github_id", in.GithubID},
		{"college_name", in.CollegeName},
		{"branch", in.Branch},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := validation.ValidateProfileField(f.name, *f.value); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		u, err := users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		set(&u.FullName, in.FullName)
		set(&u.LinkedinID, in.LinkedinID)
		set(&u.GithubID, in.GithubID)
		set(&u.CollegeName, in.CollegeName)
		set(&u.Branch, in.Branch)
		u.RecomputeCompletion()

		if err := users.Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Completion returns the completion breakdown for user.
func Completion(user *models.User) ProfileCompletion {
	return ProfileCompletion{
		Percentage: user.ProfileCompletionPercentage,
		Completed:  user.ProfileCompleted,
		Fields:     user.ProfileFields(),
	}
}
