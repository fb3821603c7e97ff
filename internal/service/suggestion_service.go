package service

import (
	"context"
	"log/slog"
	"strings"

	"campushire/internal/ai"
	"campushire/internal/featureflags"
	"campushire/internal/models"
	"campushire/internal/observability"
	"campushire/internal/repository"
)

const (
	guideRole         = "Software Engineer"
	questionsPerTopic = 3
	maxQuestions      = 8
	maxRounds         = 5
	maxSkills         = 6
	maxTips           = 7
	minGuideTips      = 5
)

var (
	defaultSkills = []string{
		"Data Structures & Algorithms",
		"Problem Solving",
		"System Design",
		"Coding Practice",
		"Technical Communication",
	}
	defaultRounds = []string{"Online Assessment", "Technical Round", "HR Round"}
)

// skillKeywords maps preparation-strategy keywords to the skill they imply.
var skillKeywords = []struct {
	skill    string
	keywords []string
}{
	{"Data Structures & Algorithms", []string{"dsa", "data structure"}},
	{"System Design", []string{"system design"}},
	{"Coding Practice", []string{"coding", "programming"}},
	{"Object-Oriented Programming", []string{"oops", "object oriented"}},
}

// CompanySuggestions is the preparation summary for one company.
type CompanySuggestions struct {
	CompanyName        string   `json:"company_name"`
	InterviewQuestions []string `json:"interview_questions"`
	SkillsToBuild      []string `json:"skills_to_build"`
	PreparationTips    []string `json:"preparation_tips"`
	CommonRounds       []string `json:"common_rounds"`
	TotalExperiences   int      `json:"total_experiences"`
}

// SuggestionService builds company preparation guides from published
// experiences, with an AI-written tip list when available.
type SuggestionService struct {
	exps  repository.ExperienceRepository
	gen   ai.Generator
	flags *featureflags.Manager
}

// NewSuggestionService returns a new SuggestionService. gen may be nil, in
// which case the fixed tip list is always used.
func NewSuggestionService(exps repository.ExperienceRepository, gen ai.Generator, flags *featureflags.Manager) *SuggestionService {
	return &SuggestionService{exps: exps, gen: gen, flags: flags}
}

// ForCompany summarizes published experiences whose company name contains
// company.
func (s *SuggestionService) ForCompany(ctx context.Context, company string) (*CompanySuggestions, error) {
	exps, err := s.exps.List(ctx, repository.ExperienceFilter{CompanyName: company, PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	out := &CompanySuggestions{
		CompanyName:        company,
		InterviewQuestions: []string{},
		SkillsToBuild:      []string{},
		PreparationTips:    []string{},
		CommonRounds:       []string{},
		TotalExperiences:   len(exps),
	}
	if len(exps) == 0 {
		return out, nil
	}

	questions := newUniqueList(maxQuestions)
	rounds := newUniqueList(maxRounds)
	skills := newUniqueList(maxSkills)
	for _, e := range exps {
		for _, cat := range e.QuestionsAsked {
			qs := cat.Questions
			if len(qs) > questionsPerTopic {
				qs = qs[:questionsPerTopic]
			}
			questions.add(qs...)
		}
		for _, r := range e.InterviewRounds {
			name := r.RoundName
			if name == "" {
				name = r.RoundType
			}
			if name == "" {
				name = "Unknown"
			}
			rounds.add(name)
		}
		strategy := strings.ToLower(e.PreparationStrategy)
		for _, sk := range skillKeywords {
			for _, kw := range sk.keywords {
				if strings.Contains(strategy, kw) {
					skills.add(sk.skill)
					break
				}
			}
		}
	}

	out.InterviewQuestions = questions.items
	out.CommonRounds = orDefault(rounds.items, defaultRounds)
	out.SkillsToBuild = orDefault(skills.items, defaultSkills)
	out.PreparationTips = s.tips(ctx, company, exps)
	return out, nil
}

func (s *SuggestionService) tips(ctx context.Context, company string, exps []models.Experience) []string {
	if s.gen == nil || !s.flags.EnabledOrDefault(featureflags.AIGeneration, 0) {
		return ai.FallbackTips(company)
	}

	guide, err := s.gen.Generate(ctx, ai.GuidePrompt(company, guideRole, exps))
	if err != nil {
		observability.AIFallbacks.WithLabelValues("suggestions").Inc()
		slog.WarnContext(ctx, "guide generation failed, using fallback guide", "company", company, "err", err)
		guide = ai.FallbackGuide(company, guideRole, exps)
	}

	tips := ai.ExtractTips(guide)
	if len(tips) < minGuideTips {
		tips = append(tips, ai.DefaultTips(company)...)
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

// uniqueList keeps the first occurrence of each value, up to max entries.
type uniqueList struct {
	max   int
	seen  map[string]struct{}
	items []string
}

func newUniqueList(max int) *uniqueList {
	return &uniqueList{max: max, seen: map[string]struct{}{}, items: []string{}}
}

func (u *uniqueList) add(values ...string) {
	for _, v := range values {
		if len(u.items) == u.max {
			return
		}
		if _, ok := u.seen[v]; ok {
			continue
		}
		u.seen[v] = struct{}{}
		u.items = append(u.items, v)
	}
}

func orDefault(items, fallback []string) []string {
	if len(items) == 0 {
		return append([]string(nil), fallback...)
	}
	return items
}
