// Package otp implements the email one-time-password flow that gates
// signup and password reset.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"campushire/internal/cache"
	"campushire/internal/middleware"
	"campushire/internal/models"
	"campushire/internal/observability"

	mailer "campushire/internal/mail"
)

const (
	codeLength = 6
	// CodeValidity is how long a sent code stays usable.
	CodeValidity = cache.OTPTTL
	// GraceValidity is how long a pre-verified email may complete signup
	// without presenting a code.
	GraceValidity = cache.GraceTTL
	// Expired entries linger in the store this long past their logical
	// expiry before the store evicts them.
	storeSlack = time.Minute
)

// ErrInvalidEmail is returned for addresses that do not parse.
var ErrInvalidEmail = errors.New("email format is invalid")

type codeEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type graceEntry struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues, verifies and consumes OTPs. State lives in the injected
// store; concurrent writers for one email are last-writer-wins.
type Service struct {
	store  cache.Store
	sender mailer.Sender
	now    func() time.Time
	from   string
}

// NewService returns a Service. fromName signs the mail body.
func NewService(store cache.Store, sender mailer.Sender, fromName string) *Service {
	if fromName == "" {
		fromName = "CampusHire AI"
	}
	return &Service{store: store, sender: sender, now: time.Now, from: fromName}
}

// WithClock replaces the clock used for expiry decisions.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NormalizeEmail trims, lower-cases and validates an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Request generates a fresh code for email, replacing any previous one,
// and mails it. A delivery failure is returned as a DEPENDENCY_ERROR
// AppError; the stored code is left in place.
func (s *Service) Request(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return models.NewValidationError(err.Error())
	}

	code, err := generateNumericCode(codeLength)
	if err != nil {
		return models.NewInternalError(fmt.Errorf("generate otp code: %w", err))
	}

	entry := codeEntry{Code: code, ExpiresAt: s.now().Add(CodeValidity)}
	if err := s.put(ctx, cache.OTPKey(email), entry, CodeValidity+storeSlack); err != nil {
		return models.NewInternalError(err)
	}

	subject := "CampusHire AI - Your OTP is " + code
	if err := s.sender.Send(ctx, email, subject, s.body(code)); err != nil {
		observability.OTPRequests.WithLabelValues("mail_failed").Inc()
		cause := mailer.SanitizeCause(err)
		middleware.Logger.ErrorContext(ctx, "OTP email delivery failed",
			slog.String("email", observability.MaskEmail(email)),
			slog.String("error", cause),
		)
		return models.NewDependencyError(
			"Failed to send email: "+cause+". Please check the SMTP configuration", err)
	}

	observability.OTPRequests.WithLabelValues("sent").Inc()
	middleware.Logger.InfoContext(ctx, "OTP sent", slog.String("email", observability.MaskEmail(email)))
	return nil
}

func (s *Service) body(code string) string {
	return fmt.Sprintf(`Hello,

Your One-Time Password (OTP) for CampusHire AI is: %s

This OTP is valid for 1 minute.
Do not share it with anyone.

If you didn't request this, please ignore this email.

Thank you,
%s
`, code, s.from)
}

// Verify checks code against the stored entry for email. A wrong code does
// not consume the entry; an expired one is left for the store to evict. A
// match deletes the entry, so each code verifies at most once.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return false, nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	var entry codeEntry
	found, err := s.get(ctx, cache.OTPKey(email), &entry)
	if err != nil || !found {
		return false, err
	}
	if s.now().After(entry.ExpiresAt) {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return false, nil
	}
	if err := s.store.Delete(ctx, cache.OTPKey(email)); err != nil {
		return false, err
	}
	return true, nil
}

// MarkGraced records that email passed OTP verification and may complete
// signup without a code for GraceValidity.
func (s *Service) MarkGraced(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return models.NewValidationError(err.Error())
	}
	entry := graceEntry{ExpiresAt: s.now().Add(GraceValidity)}
	return s.put(ctx, cache.GraceKey(email), entry, GraceValidity+storeSlack)
}

// IsGraced reports whether email holds a live grace entry.
func (s *Service) IsGraced(ctx context.Context, email string) bool {
	email, err := NormalizeEmail(email)
	if err != nil {
		return false
	}
	var entry graceEntry
	found, err := s.get(ctx, cache.GraceKey(email), &entry)
	if err != nil || !found {
		return false
	}
	return !s.now().After(entry.ExpiresAt)
}

// ConsumeSignupCredential accepts either a live grace entry, which is
// deleted, or a valid code, which is consumed by Verify.
func (s *Service) ConsumeSignupCredential(ctx context.Context, email, code string) (bool, error) {
	if s.IsGraced(ctx, email) {
		normalized, _ := NormalizeEmail(email)
		if err := s.store.Delete(ctx, cache.GraceKey(normalized)); err != nil {
			return false, err
		}
		return true, nil
	}
	if strings.TrimSpace(code) == "" {
		return false, nil
	}
	return s.Verify(ctx, email, code)
}

func (s *Service) put(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, string(raw), ttl)
}

func (s *Service) get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
