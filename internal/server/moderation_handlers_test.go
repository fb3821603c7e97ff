package server

import (
	"fmt"
	"net/http"
	"testing"

	"campushire/internal/config"
	"campushire/internal/models"
	"campushire/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_LoginAndGuard(t *testing.T) {
	ts := newTestServer(t)

	var errBody map[string]string
	status := ts.do(t, http.MethodPost, "/api/v1/admin/login", fiber.Map{
		"email": testAdminEmail, "password": "nope",
	}, "", &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login service.AdminLoginResult
	status = ts.do(t, http.MethodPost, "/api/v1/admin/login", fiber.Map{
		"email": "  ADMIN@campushire.test", "password": testAdminPassword,
	}, "", &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, testAdminEmail, login.Admin.Email)
	assert.Equal(t, models.AdminRoleSuperAdmin, login.Admin.Role)

	// Admin sessions do not open student routes and vice versa.
	student := ts.registerStudent(t, "s@example.com", "S")
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/v1/users/me", nil, login.AccessToken, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/v1/admin/experiences/pending", nil, student, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/v1/admin/experiences/pending", nil, "", nil))
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/experiences/pending", nil, login.AccessToken, nil))

	require.NoError(t, ts.db.Model(&models.Admin{}).Where("email = ?", testAdminEmail).Update("is_active", false).Error)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/v1/admin/audit-logs", nil, login.AccessToken, nil))
}

func TestAdmin_ModerationPublishesIntoAnalytics(t *testing.T) {
	ts := newTestServer(t)
	student := ts.registerStudent(t, "asha@example.com", "Asha")
	admin := ts.adminToken(t)

	var exp models.Experience
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/experiences/", experienceBody("Google", 12.5, "Selected"), student, &exp))

	var pending []models.Experience
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/experiences/pending", nil, admin, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Asha", pending[0].UserName)

	var stats service.CompanyStats
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/analytics/company-stats", nil, "", &stats))
	assert.Equal(t, 0, stats.TotalExperiences)

	var msg map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/admin/experiences/approve", fiber.Map{
		"experience_id": exp.ID, "action": "approve", "reason": "looks good",
	}, admin, &msg))
	assert.Equal(t, "Experience approved successfully", msg["message"])

	// Approval invalidates the cached statistics.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/analytics/company-stats?company_name=goo", nil, "", &stats))
	assert.Equal(t, 1, stats.TotalExperiences)
	assert.Equal(t, 100.0, stats.SelectionRate)
	assert.Equal(t, 12.5, stats.AveragePackage)

	var published []models.Experience
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/experiences/", nil, "", &published))
	require.Len(t, published, 1)

	// Approved experiences are frozen for their owner.
	var errBody map[string]string
	status := ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/experiences/%d", exp.ID), fiber.Map{"role": "x"}, student, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot update approved experience", errBody["error"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/admin/experiences/approve", fiber.Map{
		"experience_id": exp.ID, "action": "reject",
	}, admin, &msg))
	assert.Equal(t, "Experience rejected successfully", msg["message"])

	var logs []models.AuditLog
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/audit-logs?limit=10", nil, admin, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionReject, logs[0].Action)
	assert.Equal(t, models.EntityExperience, logs[0].EntityType)
	assert.Equal(t, "looks good", logs[1].Details["reason"])

	var all []models.Experience
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/experiences/all?approved_only=true", nil, admin, &all))
	assert.Empty(t, all)
}

func TestAdmin_ModerationErrors(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	var errBody map[string]string
	status := ts.do(t, http.MethodPost, "/api/v1/admin/experiences/approve", fiber.Map{
		"experience_id": 1, "action": "publish",
	}, admin, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid action. Use 'approve' or 'reject'", errBody["error"])

	status = ts.do(t, http.MethodPost, "/api/v1/admin/experiences/approve", fiber.Map{
		"experience_id": 77, "action": "approve",
	}, admin, &errBody)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/admin/users/77", nil, admin, nil))
}

func TestAdmin_UserEligibilityAndDecision(t *testing.T) {
	ts := newTestServer(t)
	student := ts.registerStudent(t, "e@example.com", "Eli")
	admin := ts.adminToken(t)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/v1/users/me", fiber.Map{
		"linkedin_id": "eli", "github_id": "eli", "college_name": "NIT Trichy", "branch": "ECE",
	}, student, nil))

	var me models.User
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/users/me", nil, student, &me))

	var users []service.UserEligibility
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/users", nil, admin, &users))
	require.Len(t, users, 1)
	assert.Equal(t, me.ID, users[0].User.ID)
	assert.Equal(t, 0, users[0].ExperienceCount)

	var detail service.UserEligibility
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/users/%d", me.ID), nil, admin, &detail))
	assert.Equal(t, users[0].Eligibility.Score, detail.Eligibility.Score)

	var msg map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/admin/users/approve", fiber.Map{
		"user_id": me.ID, "action": "reject", "reason": "spam",
	}, admin, &msg))
	assert.Equal(t, "User profile rejected", msg["message"])

	// A rejected student is deactivated.
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/api/v1/users/me", nil, student, nil))

	var logs []models.AuditLog
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/audit-logs", nil, admin, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, models.EntityUser, logs[0].EntityType)
	assert.Contains(t, logs[0].Details, "eligibility")
}

func TestAdmin_FeatureFlags(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config, _ *Deps) {
		cfg.FeatureFlags = "chatbot=false"
	})
	admin := ts.adminToken(t)

	var out struct {
		Raw       map[string]string `json:"raw"`
		Effective map[string]bool   `json:"effective"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/admin/feature-flags", nil, admin, &out))
	assert.Equal(t, "false", out.Raw["chatbot"])
	assert.False(t, out.Effective["chatbot"])
	assert.True(t, out.Effective["ai_generation"])
}
