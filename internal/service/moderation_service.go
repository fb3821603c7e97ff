package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"campushire/internal/cache"
	"campushire/internal/models"
	"campushire/internal/notifications"
	"campushire/internal/observability"
	"campushire/internal/repository"
	"campushire/internal/security"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const msgInvalidAction = "Invalid action. Use 'approve' or 'reject'"

// ModerationInput is one approve/reject decision. Reason is optional.
type ModerationInput struct {
	EntityID uint
	Action   string
	Reason   string
}

// UserEligibility is a user row in the admin listing.
type UserEligibility struct {
	User            models.User `json:"user"`
	Eligibility     Eligibility `json:"eligibility"`
	ExperienceCount int         `json:"experience_count"`
}

// AdminLoginResult carries the admin account and its session token.
type AdminLoginResult struct {
	Message     string       `json:"message"`
	AdminID     uint         `json:"admin_id"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	Admin       models.Admin `json:"admin"`
}

// ModerationService moves experiences and users between approved and
// rejected states and records every decision in the audit log.
type ModerationService struct {
	db            *gorm.DB
	rdb           *redis.Client
	notifier      *notifications.Notifier
	tokens        *security.TokenIssuer
	adminPassword string
}

// NewModerationService returns a new ModerationService. rdb and notifier may
// be nil.
func NewModerationService(db *gorm.DB, rdb *redis.Client, notifier *notifications.Notifier, tokens *security.TokenIssuer, adminPassword string) *ModerationService {
	return &ModerationService{
		db:            db,
		rdb:           rdb,
		notifier:      notifier,
		tokens:        tokens,
		adminPassword: adminPassword,
	}
}

func approvalFor(action string) (bool, error) {
	switch action {
	case models.ActionApprove:
		return true, nil
	case models.ActionReject:
		return false, nil
	default:
		return false, models.NewValidationError(msgInvalidAction)
	}
}

// ModerateExperience approves (approved and published) or rejects (neither)
// an experience. Returns the client-facing confirmation message.
func (s *ModerationService) ModerateExperience(ctx context.Context, adminID uint, in ModerationInput) (string, error) {
	approved, err := approvalFor(in.Action)
	if err != nil {
		return "", err
	}

	var ownerID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exps := repository.NewExperienceRepository(tx)
		exp, err := exps.GetByID(ctx, in.EntityID)
		if err != nil {
			if isNotFound(err) {
				return experienceNotFound()
			}
			return err
		}
		ownerID = exp.UserID

		if err := exps.SetModeration(ctx, exp.ID, approved, approved); err != nil {
			return err
		}
		return repository.NewAuditRepository(tx).Create(ctx, &models.AuditLog{
			AdminID:    adminID,
			Action:     in.Action,
			EntityType: models.EntityExperience,
			EntityID:   exp.ID,
			Details:    map[string]any{"reason": in.Reason},
		})
	})
	if err != nil {
		return "", err
	}

	s.afterCommit(ctx, ownerID, models.EntityExperience, in)
	if err := cache.InvalidateStats(ctx, s.rdb); err != nil {
		slog.WarnContext(ctx, "stats cache invalidation failed", "err", err)
	}

	if approved {
		return "Experience approved successfully", nil
	}
	return "Experience rejected successfully", nil
}

// ModerateUser verifies and activates (approve) or deactivates (reject) a
// user. The audit row carries an eligibility snapshot taken after the change.
func (s *ModerationService) ModerateUser(ctx context.Context, adminID uint, in ModerationInput) (string, error) {
	approved, err := approvalFor(in.Action)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		user, err := users.GetByID(ctx, in.EntityID)
		if err != nil {
			if isNotFound(err) {
				return models.NewNotFoundError("User", in.EntityID)
			}
			return err
		}

		user.IsVerified = approved
		user.IsActive = approved
		if err := users.Update(ctx, user); err != nil {
			return err
		}

		exps, err := repository.NewExperienceRepository(tx).ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		snapshot := ScoreEligibility(*user, exps)

		return repository.NewAuditRepository(tx).Create(ctx, &models.AuditLog{
			AdminID:    adminID,
			Action:     in.Action,
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			Details: map[string]any{
				"reason":      in.Reason,
				"eligibility": snapshot,
			},
		})
	})
	if err != nil {
		return "", err
	}

	s.afterCommit(ctx, in.EntityID, models.EntityUser, in)

	if approved {
		return "User profile approved", nil
	}
	return "User profile rejected", nil
}

func (s *ModerationService) afterCommit(ctx context.Context, ownerID uint, entity string, in ModerationInput) {
	observability.ModerationDecisions.WithLabelValues(entity, in.Action).Inc()

	ev := notifications.ModerationEvent{
		EntityType: entity,
		EntityID:   in.EntityID,
		Action:     in.Action,
		Reason:     in.Reason,
	}
	if err := s.notifier.PublishModeration(ctx, ownerID, ev); err != nil {
		slog.WarnContext(ctx, "moderation notification failed",
			"entity", entity, "entity_id", in.EntityID, "err", err)
	}
}

// ListPending returns unapproved experiences, newest first, with author
// names even on anonymous posts.
func (s *ModerationService) ListPending(ctx context.Context) ([]models.Experience, error) {
	approved := false
	return s.listExperiences(ctx, repository.ExperienceFilter{Approved: &approved})
}

// ListAll returns every experience, or only approved ones.
func (s *ModerationService) ListAll(ctx context.Context, approvedOnly bool) ([]models.Experience, error) {
	f := repository.ExperienceFilter{}
	if approvedOnly {
		approved := true
		f.Approved = &approved
	}
	return s.listExperiences(ctx, f)
}

func (s *ModerationService) listExperiences(ctx context.Context, f repository.ExperienceFilter) ([]models.Experience, error) {
	exps, err := repository.NewExperienceRepository(s.db).List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := attachAuthorNames(ctx, repository.NewUserRepository(s.db), ptrs(exps), true); err != nil {
		return nil, err
	}
	return exps, nil
}

// AuditLogs returns up to limit entries, newest first.
func (s *ModerationService) AuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return repository.NewAuditRepository(s.db).List(ctx, limit)
}

// ListUsersWithEligibility scores every active user.
func (s *ModerationService) ListUsersWithEligibility(ctx context.Context) ([]UserEligibility, error) {
	users, err := repository.NewUserRepository(s.db).ListActive(ctx)
	if err != nil {
		return nil, err
	}
	exps := repository.NewExperienceRepository(s.db)
	out := make([]UserEligibility, 0, len(users))
	for _, u := range users {
		list, err := exps.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserEligibility{
			User:            u,
			Eligibility:     ScoreEligibility(u, list),
			ExperienceCount: len(list),
		})
	}
	return out, nil
}

// UserWithEligibility scores one user, active or not.
func (s *ModerationService) UserWithEligibility(ctx context.Context, userID uint) (*UserEligibility, error) {
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := repository.NewExperienceRepository(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserEligibility{
		User:            *user,
		Eligibility:     ScoreEligibility(*user, list),
		ExperienceCount: len(list),
	}, nil
}

// AdminLogin checks password against the shared admin password and returns
// an admin session. The first successful login for an email creates its
// account.
func (s *ModerationService) AdminLogin(ctx context.Context, email, password string) (*AdminLoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if subtle.ConstantTimeCompare(security.TruncatePassword(password), security.TruncatePassword(s.adminPassword)) != 1 {
		return nil, models.NewUnauthorizedError("Invalid admin credentials")
	}

	admins := repository.NewAdminRepository(s.db)
	admin, err := admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		digest, err := security.HashPassword(password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		admin = &models.Admin{
			Email:          email,
			HashedPassword: digest,
			Role:           models.AdminRoleSuperAdmin,
			IsActive:       true,
			CreatedAt:      time.Now().UTC(),
		}
		if err := admins.Create(ctx, admin); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "admin account created", "admin_id", admin.ID)
	}
	if !admin.IsActive {
		return nil, models.NewUnauthorizedError("Admin account is inactive")
	}

	token, err := s.tokens.Issue(admin.Email, admin.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AdminLoginResult{
		Message:     "Admin authenticated",
		AdminID:     admin.ID,
		AccessToken: token,
		TokenType:   "bearer",
		Admin:       *admin,
	}, nil
}

// CurrentAdmin resolves an admin session subject.
func (s *ModerationService) CurrentAdmin(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := repository.NewAdminRepository(s.db).GetByID(ctx, adminID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewUnauthorizedError("Could not validate credentials")
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, models.NewUnauthorizedError("Admin account is inactive")
	}
	return admin, nil
}
