// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User is a student account. Created only through OTP-gated signup.
type User struct {
	ID                          uint      `gorm:"primaryKey" json:"id"`
	FullName                    string    `gorm:"size:255" json:"full_name"`
	Email                       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword              string    `gorm:"not null" json:"-"`
	IsVerified                  bool      `gorm:"default:false" json:"is_verified"`
	IsActive                    bool      `gorm:"default:true" json:"is_active"`
	LinkedinID                  string    `gorm:"size:255" json:"linkedin_id"`
	GithubID                    string    `gorm:"size:255" json:"github_id"`
	CollegeName                 string    `gorm:"size:255" json:"college_name"`
	Branch                      string    `gorm:"size:255" json:"branch"`
	ProfileCompleted            bool      `gorm:"default:false" json:"profile_completed"`
	ProfileCompletionPercentage int       `gorm:"default:0" json:"profile_completion_percentage"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// ProfileFields reports which of the profile completion fields are filled,
// keyed by their JSON names.
func (u *User) ProfileFields() map[string]bool {
	return map[string]bool{
		"full_name":    filled(u.FullName),
		"email":        filled(u.Email),
		"linkedin_id":  filled(u.LinkedinID),
		"github_id":    filled(u.GithubID),
		"college_name": filled(u.CollegeName),
		"branch":       filled(u.Branch),
	}
}

// RecomputeCompletion derives ProfileCompletionPercentage and
// ProfileCompleted from the profile fields. It must be called after any
// profile field changes; nothing else writes those two fields.
func (u *User) RecomputeCompletion() {
	fields := u.ProfileFields()
	done := 0
	for _, ok := range fields {
		if ok {
			done++
		}
	}
	u.ProfileCompletionPercentage = done * 100 / len(fields)
	u.ProfileCompleted = u.ProfileCompletionPercentage == 100
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
