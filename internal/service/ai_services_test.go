package service

import (
	"context"
	"errors"
	"testing"

	"campushire/internal/ai"
	"campushire/internal/featureflags"
	"campushire/internal/models"
	"campushire/internal/repository"
	"campushire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func seedSuggestionData(t *testing.T) repository.ExperienceRepository {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	u := testutil.CreateUser(t, db, "author@college.edu")
	publish := func(e *models.Experience) { e.IsApproved, e.IsPublished = true, true }

	testutil.CreateExperience(t, db, u.ID, publish, func(e *models.Experience) {
		e.CompanyName = "Globex Corp"
		e.PreparationStrategy = "LeetCode DSA daily plus some System Design"
		e.InterviewRounds = []models.InterviewRound{{RoundName: "OA"}, {RoundType: "Technical"}, {}}
		e.QuestionsAsked = models.QuestionsByCategory{
			{Category: "DSA", Questions: []string{"q1", "q2", "q3", "q4"}},
			{Category: "HR", Questions: []string{"q1", "why us"}},
		}
	})
	testutil.CreateExperience(t, db, u.ID, publish, func(e *models.Experience) {
		e.CompanyName = "globex"
		e.PreparationStrategy = "Programming contests and OOPS revision"
		e.InterviewRounds = []models.InterviewRound{{RoundName: "OA"}}
	})
	testutil.CreateExperience(t, db, u.ID, func(e *models.Experience) {
		e.CompanyName = "Globex"
		e.QuestionsAsked = models.QuestionsByCategory{{Category: "DSA", Questions: []string{"hidden"}}}
	})
	return repository.NewExperienceRepository(db)
}

func TestSuggestionService_Aggregates(t *testing.T) {
	repo := seedSuggestionData(t)
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).Return("Guide:\n- Master graphs and dynamic programming\n* short\n• Mock interviews with peers weekly\n", nil).Once()

	svc := NewSuggestionService(repo, gen, featureflags.NewManager(""))
	got, err := svc.ForCompany(context.Background(), "GLOBEX")
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalExperiences)
	assert.Equal(t, []string{"q1", "q2", "q3", "why us"}, got.InterviewQuestions)
	assert.Equal(t, []string{"OA", "Technical", "Unknown"}, got.CommonRounds)
	// Newest experience first.
	assert.Equal(t, []string{
		"Coding Practice",
		"Object-Oriented Programming",
		"Data Structures & Algorithms",
		"System Design",
	}, got.SkillsToBuild)

	require.Len(t, got.PreparationTips, 7)
	assert.Equal(t, "Master graphs and dynamic programming", got.PreparationTips[0])
	assert.Equal(t, "Mock interviews with peers weekly", got.PreparationTips[1])
	assert.Equal(t, ai.DefaultTips("GLOBEX")[0], got.PreparationTips[2])
	gen.AssertExpectations(t)
}

func TestSuggestionService_Fallbacks(t *testing.T) {
	repo := seedSuggestionData(t)
	ctx := context.Background()

	t.Run("generator error uses fallback guide", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Once()
		got, err := NewSuggestionService(repo, gen, nil).ForCompany(ctx, "Globex")
		require.NoError(t, err)
		assert.Equal(t, ai.ExtractTips(ai.FallbackGuide("Globex", guideRole, nil)), got.PreparationTips)
	})

	t.Run("flag off skips generation", func(t *testing.T) {
		gen := new(mockGenerator)
		flags := featureflags.NewManager(featureflags.AIGeneration + "=false")
		got, err := NewSuggestionService(repo, gen, flags).ForCompany(ctx, "Globex")
		require.NoError(t, err)
		assert.Equal(t, ai.FallbackTips("Globex"), got.PreparationTips)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("unknown company", func(t *testing.T) {
		got, err := NewSuggestionService(repo, nil, nil).ForCompany(ctx, "Initech")
		require.NoError(t, err)
		assert.Zero(t, got.TotalExperiences)
		assert.Empty(t, got.InterviewQuestions)
		assert.Empty(t, got.PreparationTips)
		assert.NotNil(t, got.CommonRounds)
	})
}

func TestChatbotService_Chat(t *testing.T) {
	ctx := context.Background()

	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, ai.ChatPrompt("How do I prepare for the HR round?")).Return("Be yourself.", nil).Once()
	svc := NewChatbotService(gen)

	reply, err := svc.Chat(ctx, "How do I prepare for the HR round?", "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Be yourself.", reply.Response)
	assert.Equal(t, "c-1", reply.ConversationID)

	reply, err = svc.Chat(ctx, "What's the weather like?", "")
	require.NoError(t, err)
	assert.Equal(t, ai.OffTopicReply, reply.Response)
	assert.Equal(t, "default", reply.ConversationID)
	gen.AssertExpectations(t)

	failing := new(mockGenerator)
	failing.On("Generate", mock.Anything, mock.Anything).Return("", ai.ErrEmptyResponse)
	reply, err = NewChatbotService(failing).Chat(ctx, "resume tips please", "")
	require.NoError(t, err)
	assert.Equal(t, ai.ChatFallback("resume tips please"), reply.Response)

	_, err = svc.Chat(ctx, "   ", "")
	requireCode(t, err, models.CodeValidation)
}
