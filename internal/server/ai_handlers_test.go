package server

import (
	"errors"
	"net/http"
	"testing"

	"campushire/internal/ai"
	"campushire/internal/config"
	"campushire/internal/models"
	"campushire/internal/service"
	"campushire/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_Endpoints(t *testing.T) {
	ts := newTestServer(t)
	author := testutil.CreateUser(t, ts.db, "a@example.com", func(u *models.User) { u.CollegeName = "IIT Bombay" })
	pkg := 20.0
	testutil.CreateExperience(t, ts.db, author.ID, func(e *models.Experience) {
		e.CompanyName, e.Role, e.PackageOffered = "Google", "Software Engineer", &pkg
		e.IsApproved, e.IsPublished = true, true
		e.ResourcesFollowed = []string{"LeetCode"}
		e.InterviewRounds = []models.InterviewRound{{RoundName: "OA", Difficulty: "Hard"}}
	})
	testutil.CreateExperience(t, ts.db, author.ID, func(e *models.Experience) {
		e.CompanyName, e.Role, e.FinalResult = "Amazon", "Software Engineer", models.ResultRejected
		e.IsApproved, e.IsPublished = true, true
		e.RejectionReasons = "DSA round"
	})

	var role service.RoleStats
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/analytics/role-stats?role=software", nil, "", &role))
	assert.Equal(t, 2, role.TotalExperiences)
	assert.Equal(t, 50.0, role.SelectionRate)
	assert.Equal(t, 20.0, role.AveragePackage)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/v1/analytics/role-stats", nil, "", &errBody))

	var trends service.Trends
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/analytics/trends", nil, "", &trends))
	assert.Equal(t, 1, trends.RejectionReasonsCount)
	assert.Equal(t, []service.Count{{Name: "LeetCode", Count: 1}}, trends.TopResources)
	assert.Equal(t, []service.Count{{Name: "Hard", Count: 1}}, trends.DifficultyDistribution)

	var colleges map[string]service.CollegeSummary
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/analytics/college-stats", nil, "", &colleges))
	assert.Equal(t, service.CollegeSummary{TotalExperiences: 2, SelectionRate: 50}, colleges["IIT Bombay"])
}

func TestCompanySuggestions(t *testing.T) {
	ts := newTestServer(t, func(_ *config.Config, d *Deps) {
		d.Generator = stubGenerator{err: errors.New("ollama down")}
	})
	author := testutil.CreateUser(t, ts.db, "a@example.com")
	testutil.CreateExperience(t, ts.db, author.ID, func(e *models.Experience) {
		e.CompanyName = "Goldman Sachs"
		e.IsApproved, e.IsPublished = true, true
		e.QuestionsAsked = models.QuestionsByCategory{{Category: "DSA", Questions: []string{"Reverse a linked list"}}}
	})

	var out service.CompanySuggestions
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/companies/Goldman%20Sachs/suggestions", nil, "", &out))
	assert.Equal(t, "Goldman Sachs", out.CompanyName)
	assert.Equal(t, 1, out.TotalExperiences)
	assert.Equal(t, []string{"Reverse a linked list"}, out.InterviewQuestions)
	assert.NotEmpty(t, out.PreparationTips)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/companies/Nowhere/suggestions", nil, "", &out))
	assert.Equal(t, 0, out.TotalExperiences)
	assert.Empty(t, out.InterviewQuestions)
}

func TestChatbot(t *testing.T) {
	t.Run("answers campus questions", func(t *testing.T) {
		ts := newTestServer(t)
		var reply service.ChatReply
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/chatbot/chat", fiber.Map{
			"message": "How should I prepare for the placement coding round?",
		}, "", &reply))
		assert.Equal(t, "Practice arrays daily.", reply.Response)
		assert.Equal(t, "default", reply.ConversationID)
	})

	t.Run("declines off-topic questions", func(t *testing.T) {
		ts := newTestServer(t)
		var reply service.ChatReply
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/chatbot/chat", fiber.Map{
			"message": "What is the weather today?", "conversation_id": "c1",
		}, "", &reply))
		assert.Equal(t, ai.OffTopicReply, reply.Response)
		assert.Equal(t, "c1", reply.ConversationID)
	})

	t.Run("rejects blank messages", func(t *testing.T) {
		ts := newTestServer(t)
		var errBody map[string]string
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/v1/chatbot/chat", fiber.Map{"message": "  "}, "", &errBody))
		assert.Equal(t, "Message is required", errBody["error"])
	})

	t.Run("disabled by flag", func(t *testing.T) {
		ts := newTestServer(t, func(cfg *config.Config, _ *Deps) { cfg.FeatureFlags = "chatbot=off" })
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/v1/chatbot/chat", fiber.Map{"message": "placement tips"}, "", nil))
	})
}
