package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"campushire/internal/cache"
	"campushire/internal/models"
	"campushire/internal/repository"

	"github.com/redis/go-redis/v9"
)

const topN = 10

// Count is one row of a frequency table.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsRecord is the projection of a published experience the aggregator
// reads. College comes from the author's profile.
type StatsRecord struct {
	CompanyName      string
	Role             string
	FinalResult      string
	PackageOffered   *float64
	Questions        []string
	Resources        []string
	Difficulties     []string
	RejectionReasons string
	College          string
}

// CollegeSummary is the per-college rollup.
type CollegeSummary struct {
	TotalExperiences int     `json:"total_experiences"`
	SelectionRate    float64 `json:"selection_rate"`
}

// Summary is the full result of one aggregation pass.
type Summary struct {
	TotalExperiences      int                       `json:"total_experiences"`
	SelectionRate         float64                   `json:"selection_rate"`
	AveragePackage        float64                   `json:"average_package"`
	Companies             []Count                   `json:"companies"`
	Roles                 []Count                   `json:"roles"`
	Questions             []Count                   `json:"questions"`
	Resources             []Count                   `json:"resources"`
	Difficulty            []Count                   `json:"difficulty"`
	RejectionReasonsCount int                       `json:"rejection_reasons_count"`
	Colleges              map[string]CollegeSummary `json:"colleges"`
}

// counter keeps first-seen order so ties sort stably.
type counter struct {
	index map[string]int
	rows  []Count
}

func newCounter() *counter { return &counter{index: map[string]int{}} }

func (c *counter) add(name string) {
	if i, ok := c.index[name]; ok {
		c.rows[i].Count++
		return
	}
	c.index[name] = len(c.rows)
	c.rows = append(c.rows, Count{Name: name, Count: 1})
}

func (c *counter) top(n int) []Count {
	out := make([]Count, len(c.rows))
	copy(out, c.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rate(selected, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(selected) / float64(total) * 100)
}

// Aggregate computes every statistic over records in a single pass.
func Aggregate(records []StatsRecord) Summary {
	companies, roles, questions := newCounter(), newCounter(), newCounter()
	resources, difficulty := newCounter(), newCounter()

	type collegeTally struct{ total, selected int }
	colleges := map[string]*collegeTally{}

	var selected, packages, rejections int
	var packageSum float64

	for _, r := range records {
		isSelected := r.FinalResult == models.ResultSelected
		if isSelected {
			selected++
		}
		if r.PackageOffered != nil {
			packages++
			packageSum += *r.PackageOffered
		}
		companies.add(r.CompanyName)
		roles.add(r.Role)
		for _, q := range r.Questions {
			questions.add(q)
		}
		for _, res := range r.Resources {
			resources.add(res)
		}
		for _, d := range r.Difficulties {
			if strings.TrimSpace(d) != "" {
				difficulty.add(d)
			}
		}
		if r.FinalResult == models.ResultRejected && strings.TrimSpace(r.RejectionReasons) != "" {
			rejections++
		}
		if college := strings.TrimSpace(r.College); college != "" {
			t, ok := colleges[college]
			if !ok {
				t = &collegeTally{}
				colleges[college] = t
			}
			t.total++
			if isSelected {
				t.selected++
			}
		}
	}

	s := Summary{
		TotalExperiences:      len(records),
		SelectionRate:         rate(selected, len(records)),
		Companies:             companies.top(topN),
		Roles:                 roles.top(topN),
		Questions:             questions.top(topN),
		Resources:             resources.top(topN),
		Difficulty:            difficulty.top(topN),
		RejectionReasonsCount: rejections,
		Colleges:              make(map[string]CollegeSummary, len(colleges)),
	}
	if packages > 0 {
		s.AveragePackage = round2(packageSum / float64(packages))
	}
	for name, t := range colleges {
		s.Colleges[name] = CollegeSummary{TotalExperiences: t.total, SelectionRate: rate(t.selected, t.total)}
	}
	return s
}

// RecordFromExperience projects exp for Aggregate.
func RecordFromExperience(exp models.Experience, college string) StatsRecord {
	r := StatsRecord{
		CompanyName:      exp.CompanyName,
		Role:             exp.Role,
		FinalResult:      exp.FinalResult,
		PackageOffered:   exp.PackageOffered,
		Questions:        exp.QuestionsAsked.All(),
		Resources:        exp.ResourcesFollowed,
		RejectionReasons: exp.RejectionReasons,
		College:          college,
	}
	for _, round := range exp.InterviewRounds {
		r.Difficulties = append(r.Difficulties, round.Difficulty)
	}
	return r
}

// CompanyStats is the response of the company statistics endpoint.
type CompanyStats struct {
	TotalExperiences int     `json:"total_experiences"`
	Companies        []Count `json:"companies"`
	Roles            []Count `json:"roles"`
	SelectionRate    float64 `json:"selection_rate"`
	AveragePackage   float64 `json:"average_package"`
	TopQuestions     []Count `json:"top_questions"`
}

// RoleStats is the response of the role statistics endpoint.
type RoleStats struct {
	Role             string  `json:"role"`
	TotalExperiences int     `json:"total_experiences"`
	Companies        []Count `json:"companies"`
	SelectionRate    float64 `json:"selection_rate"`
	AveragePackage   float64 `json:"average_package"`
}

// Trends is the response of the trends endpoint.
type Trends struct {
	TopResources           []Count `json:"top_resources"`
	RejectionReasonsCount  int     `json:"rejection_reasons_count"`
	DifficultyDistribution []Count `json:"difficulty_distribution"`
	TotalExperiences       int     `json:"total_experiences"`
}

// StatsService serves aggregate statistics over published experiences.
// Results are cached in Redis when a client is configured.
type StatsService struct {
	expRepo  repository.ExperienceRepository
	userRepo repository.UserRepository
	rdb      *redis.Client
}

// NewStatsService returns a StatsService. rdb may be nil.
func NewStatsService(expRepo repository.ExperienceRepository, userRepo repository.UserRepository, rdb *redis.Client) *StatsService {
	return &StatsService{expRepo: expRepo, userRepo: userRepo, rdb: rdb}
}

func (s *StatsService) summarize(ctx context.Context, f repository.ExperienceFilter, withColleges bool) (Summary, error) {
	f.PublishedOnly = true
	exps, err := s.expRepo.List(ctx, f)
	if err != nil {
		return Summary{}, err
	}

	var authors map[uint]models.User
	if withColleges {
		ids := make([]uint, 0, len(exps))
		for _, e := range exps {
			ids = append(ids, e.UserID)
		}
		if authors, err = s.userRepo.MapByID(ctx, ids); err != nil {
			return Summary{}, err
		}
	}

	records := make([]StatsRecord, 0, len(exps))
	for _, e := range exps {
		records = append(records, RecordFromExperience(e, authors[e.UserID].CollegeName))
	}
	return Aggregate(records), nil
}

// CompanyStats aggregates experiences whose company contains company. An
// empty company covers every published experience.
func (s *StatsService) CompanyStats(ctx context.Context, company string) (*CompanyStats, error) {
	var out CompanyStats
	err := cache.Aside(ctx, s.rdb, cache.StatsKey("company", company), &out, cache.StatsTTL, func() error {
		sum, err := s.summarize(ctx, repository.ExperienceFilter{CompanyName: company}, false)
		if err != nil {
			return err
		}
		out = CompanyStats{
			TotalExperiences: sum.TotalExperiences,
			Companies:        sum.Companies,
			Roles:            sum.Roles,
			SelectionRate:    sum.SelectionRate,
			AveragePackage:   sum.AveragePackage,
			TopQuestions:     sum.Questions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RoleStats aggregates experiences whose role contains role.
func (s *StatsService) RoleStats(ctx context.Context, role string) (*RoleStats, error) {
	if strings.TrimSpace(role) == "" {
		return nil, models.NewValidationError("role is required")
	}
	var out RoleStats
	err := cache.Aside(ctx, s.rdb, cache.StatsKey("role", role), &out, cache.StatsTTL, func() error {
		sum, err := s.summarize(ctx, repository.ExperienceFilter{Role: role}, false)
		if err != nil {
			return err
		}
		out = RoleStats{
			TotalExperiences: sum.TotalExperiences,
			Companies:        sum.Companies,
			SelectionRate:    sum.SelectionRate,
			AveragePackage:   sum.AveragePackage,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// The cache key is case-folded; echo the caller's spelling.
	out.Role = role
	return &out, nil
}

// Trends reports resources, rejection and difficulty figures.
func (s *StatsService) Trends(ctx context.Context) (*Trends, error) {
	var out Trends
	err := cache.Aside(ctx, s.rdb, cache.StatsKey("trends", ""), &out, cache.StatsTTL, func() error {
		sum, err := s.summarize(ctx, repository.ExperienceFilter{}, false)
		if err != nil {
			return err
		}
		out = Trends{
			TopResources:           sum.Resources,
			RejectionReasonsCount:  sum.RejectionReasonsCount,
			DifficultyDistribution: sum.Difficulty,
			TotalExperiences:       sum.TotalExperiences,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CollegeStats rolls published experiences up by the author's college.
func (s *StatsService) CollegeStats(ctx context.Context) (map[string]CollegeSummary, error) {
	out := map[string]CollegeSummary{}
	err := cache.Aside(ctx, s.rdb, cache.StatsKey("college", ""), &out, cache.StatsTTL, func() error {
		sum, err := s.summarize(ctx, repository.ExperienceFilter{}, true)
		if err != nil {
			return err
		}
		out = sum.Colleges
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
