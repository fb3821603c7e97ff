package service

import (
	"context"
	"errors"
	"strings"

	"campushire/internal/models"
	"campushire/internal/repository"
	"campushire/internal/validation"

	"gorm.io/gorm"
)

// ExperienceInput is a new experience as submitted by its author.
type ExperienceInput struct {
	CompanyName         string                     `json:"company_name"`
	Role                string                     `json:"role"`
	PackageOffered      *float64                   `json:"package_offered"`
	InterviewRounds     []models.InterviewRound    `json:"interview_rounds"`
	QuestionsAsked      models.QuestionsByCategory `json:"questions_asked"`
	PreparationStrategy string                     `json:"preparation_strategy"`
	ResourcesFollowed   []string                   `json:"resources_followed"`
	RejectionReasons    string                     `json:"rejection_reasons"`
	FinalResult         string                     `json:"final_result"`
	IsAnonymous         bool                       `json:"is_anonymous"`
}

// ExperienceUpdateInput changes only the non-nil fields.
type ExperienceUpdateInput struct {
	CompanyName         *string                     `json:"company_name"`
	Role                *string                     `json:"role"`
	PackageOffered      *float64                    `json:"package_offered"`
	InterviewRounds     *[]models.InterviewRound    `json:"interview_rounds"`
	QuestionsAsked      *models.QuestionsByCategory `json:"questions_asked"`
	PreparationStrategy *string                     `json:"preparation_strategy"`
	ResourcesFollowed   *[]string                   `json:"resources_followed"`
	RejectionReasons    *string                     `json:"rejection_reasons"`
	FinalResult         *string                     `json:"final_result"`
	IsAnonymous         *bool                       `json:"is_anonymous"`
}

// ExperienceService handles experience submission, browsing and bookmarks.
type ExperienceService struct {
	db    *gorm.DB
	exps  repository.ExperienceRepository
	users repository.UserRepository
}

func NewExperienceService(db *gorm.DB) *ExperienceService {
	return &ExperienceService{
		db:    db,
		exps:  repository.NewExperienceRepository(db),
		users: repository.NewUserRepository(db),
	}
}

func experienceNotFound() error {
	return &models.AppError{Code: models.CodeNotFound, Message: "Experience not found"}
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}

// Create stores a new, unapproved experience for userID.
func (s *ExperienceService) Create(ctx context.Context, userID uint, in ExperienceInput) (*models.Experience, error) {
	exp := &models.Experience{
		UserID:              userID,
		CompanyName:         strings.TrimSpace(in.CompanyName),
		Role:                strings.TrimSpace(in.Role),
		PackageOffered:      in.PackageOffered,
		InterviewRounds:     in.InterviewRounds,
		QuestionsAsked:      in.QuestionsAsked,
		PreparationStrategy: in.PreparationStrategy,
		ResourcesFollowed:   in.ResourcesFollowed,
		RejectionReasons:    in.RejectionReasons,
		FinalResult:         in.FinalResult,
		IsAnonymous:         in.IsAnonymous,
	}
	if err := validation.ValidateExperience(exp); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.exps.Create(ctx, exp); err != nil {
		return nil, err
	}
	if err := s.attachNames(ctx, []*models.Experience{exp}); err != nil {
		return nil, err
	}
	return exp, nil
}

// List returns experiences matching f, newest first, with author names.
func (s *ExperienceService) List(ctx context.Context, f repository.ExperienceFilter) ([]models.Experience, error) {
	exps, err := s.exps.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.attachNames(ctx, ptrs(exps)); err != nil {
		return nil, err
	}
	return exps, nil
}

// ListMine returns every experience userID submitted, whatever its state.
func (s *ExperienceService) ListMine(ctx context.Context, userID uint) ([]models.Experience, error) {
	return s.List(ctx, repository.ExperienceFilter{UserID: userID})
}

func (s *ExperienceService) Get(ctx context.Context, id uint) (*models.Experience, error) {
	exp, err := s.exps.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, experienceNotFound()
		}
		return nil, err
	}
	if err := s.attachNames(ctx, []*models.Experience{exp}); err != nil {
		return nil, err
	}
	return exp, nil
}

// Update edits an experience owned by userID that is not yet approved. The
// approval check and the write happen in one transaction, and the write is
// conditional on the row still being unapproved.
func (s *ExperienceService) Update(ctx context.Context, userID, id uint, in ExperienceUpdateInput) (*models.Experience, error) {
	var exp *models.Experience
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exps := repository.NewExperienceRepository(tx)
		current, err := exps.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return experienceNotFound()
			}
			return err
		}
		if current.UserID != userID {
			return models.NewForbiddenError("Not authorized to update this experience")
		}
		if current.IsApproved {
			return errApprovedExperience()
		}

		in.apply(current)
		if err := validation.ValidateExperience(current); err != nil {
			return models.NewValidationError(err.Error())
		}

		written, err := exps.UpdateOwned(ctx, current)
		if err != nil {
			return err
		}
		if !written {
			return errApprovedExperience()
		}
		exp = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.attachNames(ctx, []*models.Experience{exp}); err != nil {
		return nil, err
	}
	return exp, nil
}

func errApprovedExperience() error {
	return models.NewValidationError("Cannot update approved experience")
}

func (in ExperienceUpdateInput) apply(exp *models.Experience) {
	if in.CompanyName != nil {
		exp.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.Role != nil {
		exp.Role = strings.TrimSpace(*in.Role)
	}
	if in.PackageOffered != nil {
		exp.PackageOffered = in.PackageOffered
	}
	if in.InterviewRounds != nil {
		exp.InterviewRounds = *in.InterviewRounds
	}
	if in.QuestionsAsked != nil {
		exp.QuestionsAsked = *in.QuestionsAsked
	}
	if in.PreparationStrategy != nil {
		exp.PreparationStrategy = *in.PreparationStrategy
	}
	if in.ResourcesFollowed != nil {
		exp.ResourcesFollowed = *in.ResourcesFollowed
	}
	if in.RejectionReasons != nil {
		exp.RejectionReasons = *in.RejectionReasons
	}
	if in.FinalResult != nil {
		exp.FinalResult = *in.FinalResult
	}
	if in.IsAnonymous != nil {
		exp.IsAnonymous = *in.IsAnonymous
	}
}

// Bookmark saves experienceID for userID.
func (s *ExperienceService) Bookmark(ctx context.Context, userID, experienceID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewExperienceRepository(tx).GetByID(ctx, experienceID); err != nil {
			if isNotFound(err) {
				return experienceNotFound()
			}
			return err
		}
		bookmarks := repository.NewBookmarkRepository(tx)
		existing, err := bookmarks.Get(ctx, userID, experienceID)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewValidationError("Already bookmarked")
		}
		return bookmarks.Create(ctx, &models.Bookmark{UserID: userID, ExperienceID: experienceID})
	})
}

// RemoveBookmark deletes the bookmark of experienceID for userID.
func (s *ExperienceService) RemoveBookmark(ctx context.Context, userID, experienceID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewBookmarkRepository(tx).Delete(ctx, userID, experienceID)
	})
}

// Bookmarks lists the experiences userID saved, most recently saved first.
func (s *ExperienceService) Bookmarks(ctx context.Context, userID uint) ([]models.Experience, error) {
	ids, err := repository.NewBookmarkRepository(s.db).ExperienceIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	exps, err := s.List(ctx, repository.ExperienceFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Experience, len(exps))
	for _, e := range exps {
		byID[e.ID] = e
	}
	out := make([]models.Experience, 0, len(exps))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// attachNames fills UserName on non-anonymous experiences.
func (s *ExperienceService) attachNames(ctx context.Context, exps []*models.Experience) error {
	return attachAuthorNames(ctx, s.users, exps, false)
}

// attachAuthorNames fills UserName from the authors' profiles. Moderators
// see names on anonymous experiences too.
func attachAuthorNames(ctx context.Context, users repository.UserRepository, exps []*models.Experience, includeAnonymous bool) error {
	ids := make([]uint, 0, len(exps))
	for _, e := range exps {
		if includeAnonymous || !e.IsAnonymous {
			ids = append(ids, e.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	authors, err := users.MapByID(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range exps {
		if includeAnonymous || !e.IsAnonymous {
			e.UserName = authors[e.UserID].FullName
		}
	}
	return nil
}

func ptrs(exps []models.Experience) []*models.Experience {
	out := make([]*models.Experience, len(exps))
	for i := range exps {
		out[i] = &exps[i]
	}
	return out
}
