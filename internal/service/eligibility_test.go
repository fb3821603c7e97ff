package service

import (
	"testing"

	"campushire/internal/models"

	"github.com/stretchr/testify/assert"
)

func fullProfile() models.User {
	u := models.User{
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		LinkedinID:  "asha-rao",
		GithubID:    "asharao",
		CollegeName: "NIT Trichy",
		Branch:      "CSE",
	}
	u.RecomputeCompletion()
	return u
}

func experiences(n, approved int) []models.Experience {
	out := make([]models.Experience, n)
	for i := 0; i < approved && i < n; i++ {
		out[i].IsApproved = true
	}
	return out
}

func TestScoreEligibility(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		user           models.User
		exps           []models.Experience
		wantPct        int
		wantScore      int
		wantStatus     string
		wantRecommend  string
		wantIssueCount int
	}{
		{
			name:          "full profile with approved experiences is capped at 100",
			user:          fullProfile(),
			exps:          experiences(4, 1),
			wantPct:       100,
			wantScore:     105,
			wantStatus:    StatusHighlyEligible,
			wantRecommend: RecommendApprove,
		},
		{
			name:          "full profile without experiences",
			user:          fullProfile(),
			wantPct:       75,
			wantScore:     75,
			wantStatus:    StatusEligible,
			wantRecommend: RecommendApprove,
			// only "No experiences shared yet"
			wantIssueCount: 1,
		},
		{
			name:           "email only",
			user:           models.User{Email: "x@example.com", ProfileCompletionPercentage: 16},
			wantPct:        10,
			wantScore:      10,
			wantStatus:     StatusNotEligible,
			wantRecommend:  RecommendReject,
			wantIssueCount: 7,
		},
		{
			name: "whitespace fields count as missing",
			user: models.User{
				FullName: "   ", Email: "x@example.com", CollegeName: "\t",
				LinkedinID: "li", GithubID: "gh",
			},
			exps:           experiences(2, 0),
			wantPct:        50,
			wantScore:      50,
			wantStatus:     StatusNeedsImprovement,
			wantRecommend:  RecommendReview,
			wantIssueCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreEligibility(tt.user, tt.exps)
			assert.Equal(t, tt.wantPct, got.EligibilityPercentage)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, 100, got.MaxScore)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantRecommend, got.Recommendation)
			assert.Len(t, got.Issues, tt.wantIssueCount)
			assert.Equal(t, len(tt.exps), got.ExperienceCount)
		})
	}
}

func TestScoreEligibility_ExperiencePointsCap(t *testing.T) {
	t.Parallel()
	u := models.User{}
	three := ScoreEligibility(u, experiences(3, 0))
	ten := ScoreEligibility(u, experiences(10, 0))
	assert.Equal(t, 15, three.Score)
	assert.Equal(t, 20, ten.Score)
	assert.Contains(t, ten.Strengths, "10 experience(s) shared")
}

func TestScoreEligibility_StatusThresholds(t *testing.T) {
	t.Parallel()
	// name+email+college+branch+linkedin = 50, github +15 = 65, +5 exp = 70, +20 = 80
	u := models.User{FullName: "a", Email: "b", CollegeName: "c", Branch: "d", LinkedinID: "e"}
	assert.Equal(t, StatusNeedsImprovement, ScoreEligibility(u, nil).Status)

	u.GithubID = "f"
	assert.Equal(t, StatusEligible, ScoreEligibility(u, nil).Status)

	assert.Equal(t, StatusHighlyEligible, ScoreEligibility(u, experiences(3, 0)).Status)

	u = models.User{FullName: "a", Email: "b", CollegeName: "c", Branch: "d"}
	assert.Equal(t, 35, ScoreEligibility(u, nil).EligibilityPercentage)
	assert.Equal(t, StatusNotEligible, ScoreEligibility(u, nil).Status)
}
