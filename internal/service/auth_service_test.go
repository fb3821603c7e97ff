package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campushire/internal/models"
	"campushire/internal/otp"
	"campushire/internal/repository"
	"campushire/internal/security"
	"campushire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	svc    *AuthService
	db     *gorm.DB
	otp    *otp.Service
	sender *captureSender
	clock  *testClock
	tokens *security.TokenIssuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	flow, sender, clk := newTestOTP(t)
	tokens := newTestIssuer(security.UserAudience)
	return &authFixture{
		svc:    NewAuthService(repository.NewUserRepository(db), flow, tokens),
		db:     db,
		otp:    flow,
		sender: sender,
		clock:  clk,
		tokens: tokens,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestAuthService_SignupThenGraceCompletion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	email, err := f.svc.Signup(ctx, " New.Student@College.edu ")
	require.NoError(t, err)
	assert.Equal(t, "new.student@college.edu", email)

	_, err = f.svc.VerifyOTPOnly(ctx, email, "000000x")
	requireCode(t, err, models.CodeValidation)

	_, err = f.svc.VerifyOTPOnly(ctx, email, f.sender.code(email))
	require.NoError(t, err)

	f.clock.advance(4 * time.Minute)
	resp, err := f.svc.CompleteSignup(ctx, CompleteSignupInput{
		Email:           email,
		FullName:        "New Student",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.True(t, resp.IsVerified)
	assert.False(t, resp.ProfileCompleted)

	claims, ok := f.tokens.Decode(resp.AccessToken)
	require.True(t, ok)
	assert.Equal(t, email, claims.Subject)
	assert.Equal(t, resp.UserID, claims.UserID)

	var stored models.User
	require.NoError(t, f.db.First(&stored, resp.UserID).Error)
	assert.Equal(t, 33, stored.ProfileCompletionPercentage)
	assert.True(t, security.VerifyPassword("secret1", stored.HashedPassword))

	_, err = f.svc.Signup(ctx, email)
	requireCode(t, err, models.CodeValidation)
}

func TestAuthService_CompleteSignupWithCodeAndExpiredGrace(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	email := "late@college.edu"

	_, err := f.svc.Signup(ctx, email)
	require.NoError(t, err)
	_, err = f.svc.VerifyOTPOnly(ctx, email, f.sender.code(email))
	require.NoError(t, err)

	f.clock.advance(301 * time.Second)
	in := CompleteSignupInput{Email: email, FullName: "Late", Password: "secret1", ConfirmPassword: "secret1"}
	_, err = f.svc.CompleteSignup(ctx, in)
	requireCode(t, err, models.CodeValidation)

	require.NoError(t, f.svc.ResendOTP(ctx, email))
	in.OTP = f.sender.code(email)
	_, err = f.svc.CompleteSignup(ctx, in)
	require.NoError(t, err)
}

// failingCreateRepo fails Create with createErr until it is cleared.
type failingCreateRepo struct {
	repository.UserRepository
	createErr error
}

func (r *failingCreateRepo) Create(ctx context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.UserRepository.Create(ctx, user)
}

func TestAuthService_CompleteSignupCreateFailureKeepsCredential(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	email := "retry@college.edu"
	repo := &failingCreateRepo{
		UserRepository: repository.NewUserRepository(f.db),
		createErr:      models.NewInternalError(errors.New("connection reset")),
	}
	svc := NewAuthService(repo, f.otp, f.tokens)

	_, err := svc.Signup(ctx, email)
	require.NoError(t, err)

	in := CompleteSignupInput{
		Email:           email,
		OTP:             f.sender.code(email),
		FullName:        "Retry",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	_, err = svc.CompleteSignup(ctx, in)
	requireCode(t, err, models.CodeInternal)
	assert.True(t, f.otp.IsGraced(ctx, email))

	repo.createErr = nil
	in.OTP = ""
	resp, err := svc.CompleteSignup(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, email, resp.Email)
	assert.False(t, f.otp.IsGraced(ctx, email))
}

func TestAuthService_CompleteSignupValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CompleteSignupInput
	}{
		{"mismatch", CompleteSignupInput{Email: "a@b.co", FullName: "A", Password: "secret1", ConfirmPassword: "secret2"}},
		{"short", CompleteSignupInput{Email: "a@b.co", FullName: "A", Password: "abc", ConfirmPassword: "abc"}},
		{"no name", CompleteSignupInput{Email: "a@b.co", FullName: " ", Password: "secret1", ConfirmPassword: "secret1"}},
		{"bad email", CompleteSignupInput{Email: "nope", FullName: "A", Password: "secret1", ConfirmPassword: "secret1"}},
		{"no credential", CompleteSignupInput{Email: "a@b.co", FullName: "A", Password: "secret1", ConfirmPassword: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CompleteSignup(ctx, tt.in)
			requireCode(t, err, models.CodeValidation)
		})
	}
}

func TestAuthService_SignupMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.sender.err = errors.New("535 authentication failed")

	_, err := f.svc.Signup(context.Background(), "x@college.edu")
	requireCode(t, err, models.CodeDependency)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)
	active := testutil.CreateUser(t, f.db, "active@college.edu", func(u *models.User) { u.HashedPassword = hash })
	testutil.CreateUser(t, f.db, "inactive@college.edu", func(u *models.User) {
		u.HashedPassword = hash
		u.IsActive = false
	})

	resp, err := f.svc.Login(ctx, "ACTIVE@college.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, active.ID, resp.UserID)

	_, err = f.svc.Login(ctx, "active@college.edu", "wrong")
	requireCode(t, err, models.CodeUnauthorized)

	_, err = f.svc.Login(ctx, "ghost@college.edu", "secret1")
	requireCode(t, err, models.CodeUnauthorized)

	_, err = f.svc.Login(ctx, "inactive@college.edu", "secret1")
	requireCode(t, err, models.CodeForbidden)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "member@college.edu")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ghost@college.edu"))
	assert.Equal(t, 0, f.sender.sent)

	require.NoError(t, f.svc.ForgotPassword(ctx, "member@college.edu"))
	assert.Equal(t, 1, f.sender.sent)

	err := f.svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "member@college.edu", OTP: "999999x", NewPassword: "newpass", ConfirmPassword: "newpass",
	})
	requireCode(t, err, models.CodeValidation)

	require.NoError(t, f.svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "member@college.edu", OTP: f.sender.code("member@college.edu"),
		NewPassword: "newpass", ConfirmPassword: "newpass",
	}))
	_, err = f.svc.Login(ctx, "member@college.edu", "newpass")
	require.NoError(t, err)

	require.NoError(t, f.otp.Request(ctx, "ghost@college.edu"))
	err = f.svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "ghost@college.edu", OTP: f.sender.code("ghost@college.edu"),
		NewPassword: "newpass", ConfirmPassword: "newpass",
	})
	requireCode(t, err, models.CodeNotFound)
}

func TestAuthService_ResendRequiresEmail(t *testing.T) {
	f := newAuthFixture(t)
	requireCode(t, f.svc.ResendOTP(context.Background(), " "), models.CodeValidation)
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "me@college.edu")
	off := testutil.CreateUser(t, f.db, "off@college.edu", func(u *models.User) { u.IsActive = false })

	got, err := f.svc.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.svc.CurrentUser(ctx, 999)
	requireCode(t, err, models.CodeUnauthorized)
	_, err = f.svc.CurrentUser(ctx, off.ID)
	requireCode(t, err, models.CodeForbidden)
}
