// Package validation holds request field rules shared by handlers and services.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"campushire/internal/models"
)

const (
	MinPasswordLength = 6
	MaxEmailLength    = 254
	MaxFieldLength    = 255
)

// ValidateEmail checks an address is a single bare addr-spec.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") || strings.HasPrefix(domain, ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}

// ValidatePassword enforces the minimum length and the confirmation match.
func ValidatePassword(password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("Passwords do not match")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// ValidateProfileField bounds free-text profile fields.
func ValidateProfileField(name, value string) error {
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return fmt.Errorf("%s must be at most %d characters", name, MaxFieldLength)
	}
	return nil
}

// ValidateExperience checks the fields every stored experience must carry.
func ValidateExperience(exp *models.Experience) error {
	if strings.TrimSpace(exp.CompanyName) == "" {
		return fmt.Errorf("company_name is required")
	}
	if strings.TrimSpace(exp.Role) == "" {
		return fmt.Errorf("role is required")
	}
	if err := ValidateProfileField("company_name", exp.CompanyName); err != nil {
		return err
	}
	if err := ValidateProfileField("role", exp.Role); err != nil {
		return err
	}
	if !models.IsValidResult(exp.FinalResult) {
		return fmt.Errorf("final_result must be %q or %q", models.ResultSelected, models.ResultRejected)
	}
	if exp.PackageOffered != nil && *exp.PackageOffered < 0 {
		return fmt.Errorf("package_offered must not be negative")
	}
	return nil
}
