package service

import (
	"fmt"
	"math"
	"strings"

	"campushire/internal/models"
)

// Eligibility status labels and admin recommendations.
const (
	StatusHighlyEligible   = "Highly Eligible"
	StatusEligible         = "Eligible"
	StatusNeedsImprovement = "Needs Improvement"
	StatusNotEligible      = "Not Eligible"

	RecommendApprove = "approve"
	RecommendReview  = "review"
	RecommendReject  = "reject"

	eligibilityMaxScore = 100
)

// Eligibility is the profile-quality assessment shown to moderators.
type Eligibility struct {
	EligibilityPercentage   int      `json:"eligibility_percentage"`
	Score                   int      `json:"score"`
	MaxScore                int      `json:"max_score"`
	Status                  string   `json:"status"`
	Recommendation          string   `json:"recommendation"`
	Issues                  []string `json:"issues"`
	Strengths               []string `json:"strengths"`
	ExperienceCount         int      `json:"experience_count"`
	ApprovedExperienceCount int      `json:"approved_experience_count"`
}

// ScoreEligibility rates user from their profile and their experiences.
// It has no side effects; callers pass every experience the user owns.
func ScoreEligibility(user models.User, exps []models.Experience) Eligibility {
	e := Eligibility{
		MaxScore:  eligibilityMaxScore,
		Issues:    []string{},
		Strengths: []string{},
	}
	check := func(value string, points int, strength, issue string) {
		if strings.TrimSpace(value) != "" {
			e.Score += points
			e.Strengths = append(e.Strengths, strength)
		} else {
			e.Issues = append(e.Issues, issue)
		}
	}

	check(user.FullName, 10, "Full name provided", "Full name is missing")
	check(user.Email, 10, "Email verified", "Email not verified")
	check(user.CollegeName, 10, "College information provided", "College name missing")
	check(user.Branch, 5, "Branch information provided", "Branch information missing")
	check(user.LinkedinID, 15, "LinkedIn profile linked", "LinkedIn profile not linked")
	check(user.GithubID, 15, "GitHub profile linked", "GitHub profile not linked")

	e.ExperienceCount = len(exps)
	if e.ExperienceCount > 0 {
		e.Score += min(20, 5*e.ExperienceCount)
		e.Strengths = append(e.Strengths, fmt.Sprintf("%d experience(s) shared", e.ExperienceCount))
	} else {
		e.Issues = append(e.Issues, "No experiences shared yet")
	}

	for _, exp := range exps {
		if exp.IsApproved {
			e.ApprovedExperienceCount++
		}
	}
	if e.ApprovedExperienceCount > 0 {
		e.Score += 10
		e.Strengths = append(e.Strengths, fmt.Sprintf("%d approved experience(s)", e.ApprovedExperienceCount))
	}

	if user.ProfileCompletionPercentage >= 100 {
		e.Score += 10
		e.Strengths = append(e.Strengths, "Profile 100% complete")
	} else {
		e.Issues = append(e.Issues, fmt.Sprintf("Profile only %d%% complete", user.ProfileCompletionPercentage))
	}

	raw := float64(e.Score) / float64(e.MaxScore) * 100
	e.EligibilityPercentage = min(100, int(math.Round(raw)))

	switch {
	case e.EligibilityPercentage >= 80:
		e.Status, e.Recommendation = StatusHighlyEligible, RecommendApprove
	case e.EligibilityPercentage >= 60:
		e.Status, e.Recommendation = StatusEligible, RecommendApprove
	case e.EligibilityPercentage >= 40:
		e.Status, e.Recommendation = StatusNeedsImprovement, RecommendReview
	default:
		e.Status, e.Recommendation = StatusNotEligible, RecommendReject
	}
	return e
}
