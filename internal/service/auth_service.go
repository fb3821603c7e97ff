package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"campushire/internal/models"
	"campushire/internal/observability"
	"campushire/internal/otp"
	"campushire/internal/repository"
	"campushire/internal/security"
	"campushire/internal/validation"
)

const (
	msgEmailRegistered    = "Email already registered"
	msgInvalidOTP         = "Invalid or expired OTP"
	msgInvalidCredentials = "Invalid email or password"

	// MsgOTPSent is returned after a signup or resend code is mailed.
	MsgOTPSent = "OTP sent to your email. Please check your inbox, spam folder, and Promotions tab (Gmail)."
	// MsgResetRequested is returned by forgot-password whether or not the account exists.
	MsgResetRequested = "If the email exists, a password reset OTP has been sent. Please check your inbox, spam folder, and Promotions tab (Gmail)."
)

// TokenResponse is returned on successful signup and login.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	UserID           uint   `json:"user_id"`
	Email            string `json:"email"`
	IsVerified       bool   `json:"is_verified"`
	ProfileCompleted bool   `json:"profile_completed"`
}

// CompleteSignupInput creates an account once the email is proven.
type CompleteSignupInput struct {
	Email           string
	OTP             string
	FullName        string
	Password        string
	ConfirmPassword string
}

// ResetPasswordInput replaces a password using an emailed code.
type ResetPasswordInput struct {
	Email           string
	OTP             string
	NewPassword     string
	ConfirmPassword string
}

// OTPFlow is the part of otp.Service the auth flow drives.
type OTPFlow interface {
	Request(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (bool, error)
	MarkGraced(ctx context.Context, email string) error
	ConsumeSignupCredential(ctx context.Context, email, code string) (bool, error)
}

// AuthService implements OTP-gated signup, login and password reset.
type AuthService struct {
	users  repository.UserRepository
	otp    OTPFlow
	tokens *security.TokenIssuer
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repository.UserRepository, flow OTPFlow, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{users: users, otp: flow, tokens: tokens}
}

func normalizeEmail(email string) (string, error) {
	normalized, err := otp.NormalizeEmail(email)
	if err != nil {
		return "", models.NewValidationError("Invalid email address")
	}
	return normalized, nil
}

func (s *AuthService) ensureUnregistered(ctx context.Context, email string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewValidationError(msgEmailRegistered)
	}
	return nil
}

// Signup mails a code to an unregistered email and returns the normalized address.
func (s *AuthService) Signup(ctx context.Context, email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := s.ensureUnregistered(ctx, email); err != nil {
		return "", err
	}
	if err := s.otp.Request(ctx, email); err != nil {
		return "", err
	}
	return email, nil
}

// VerifyOTPOnly consumes a code and opens the grace window in which the
// account can be completed without a code.
func (s *AuthService) VerifyOTPOnly(ctx context.Context, email, code string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	ok, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if !ok {
		return "", models.NewValidationError(msgInvalidOTP)
	}
	if err := s.ensureUnregistered(ctx, email); err != nil {
		return "", err
	}
	if err := s.otp.MarkGraced(ctx, email); err != nil {
		return "", models.NewInternalError(err)
	}
	return email, nil
}

// CompleteSignup creates a verified user. The email must be inside its
// grace window or in.OTP must be a live code.
func (s *AuthService) CompleteSignup(ctx context.Context, in CompleteSignupInput) (*TokenResponse, error) {
	if err := validation.ValidatePassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, models.NewValidationError("Full name is required")
	}
	if err := validation.ValidateProfileField("full_name", fullName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureUnregistered(ctx, email); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ok, err := s.otp.ConsumeSignupCredential(ctx, email, in.OTP)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, models.NewValidationError("Invalid or expired OTP. Please verify your OTP again.")
	}

	user := &models.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: hash,
		IsVerified:     true,
		IsActive:       true,
	}
	user.RecomputeCompletion()
	if err := s.users.Create(ctx, user); err != nil {
		// Give the credential back so a retry needs no fresh code.
		if gerr := s.otp.MarkGraced(ctx, email); gerr != nil {
			slog.WarnContext(ctx, "grace window not restored", "email", observability.MaskEmail(email), "err", gerr)
		}
		return nil, err
	}
	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password share one message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	email, err := otp.NormalizeEmail(email)
	if err != nil {
		return nil, models.NewUnauthorizedError(msgInvalidCredentials)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.HashedPassword == "" || !security.VerifyPassword(password, user.HashedPassword) {
		return nil, models.NewUnauthorizedError(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, models.NewForbiddenError("Account is inactive")
	}
	return s.issue(user)
}

// ResendOTP mails a fresh code to an unregistered email.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return models.NewValidationError("Email is required")
	}
	_, err := s.Signup(ctx, email)
	return err
}

// ForgotPassword mails a reset code when the account exists. The result is
// the same for unknown emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.otp.Request(ctx, email)
}

// ResetPassword replaces the password of the account owning email.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validation.ValidatePassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return models.NewValidationError(err.Error())
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	ok, err := s.otp.Verify(ctx, email, in.OTP)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !ok {
		return models.NewValidationError(msgInvalidOTP)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return &models.AppError{Code: models.CodeNotFound, Message: "User not found"}
	}
	hash, err := security.HashPassword(in.NewPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.HashedPassword = hash
	return s.users.Update(ctx, user)
}

// CurrentUser resolves the user behind a session token.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Could not validate credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewForbiddenError("Account is inactive")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.Email, user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		UserID:           user.ID,
		Email:            user.Email,
		IsVerified:       user.IsVerified,
		ProfileCompleted: user.ProfileCompleted,
	}, nil
}
