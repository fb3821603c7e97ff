// Package seed creates demo students and interview experiences for
// development databases. It is not used by the API at runtime.
package seed

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"campushire/internal/models"
	"campushire/internal/security"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every generated account.
const DemoPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	cat   *Catalogue
	faker *gofakeit.Faker
	// synthetic ID counter when running in DryRun mode
	nextID uint
	hash   string
}

// NewFactory creates a Factory bound to db. A zero opts.RandSeed uses the clock.
func NewFactory(db *gorm.DB, cat *Catalogue, opts Options) *Factory {
	s := opts.RandSeed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, cat: cat, faker: gofakeit.New(s), nextID: 1000}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	if f.opts.SkipBcrypt {
		f.hash = DemoPassword
		return f.hash, nil
	}
	h, err := security.HashPassword(DemoPassword)
	if err != nil {
		return "", err
	}
	f.hash = h
	return h, nil
}

// BuildUser returns a verified student with a fully or partly filled profile.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	first, last := f.faker.FirstName(), f.faker.LastName()
	handle := strings.ToLower(first + "." + last + fmt.Sprint(f.faker.Number(10, 999)))
	user := &models.User{
		FullName:       first + " " + last,
		Email:          handle + "@example.com",
		HashedPassword: hash,
		IsVerified:     true,
		IsActive:       true,
		CollegeName:    f.faker.RandomString(f.cat.Colleges),
		Branch:         f.faker.RandomString(f.cat.Branches),
	}
	// Leave some profiles incomplete so eligibility scores vary.
	if f.faker.Number(1, 10) > 3 {
		user.LinkedinID = handle
	}
	if f.faker.Number(1, 10) > 4 {
		user.GithubID = strings.ReplaceAll(handle, ".", "-")
	}
	for _, o := range overrides {
		o(user)
	}
	user.RecomputeCompletion()
	return user, nil
}

// CreateUser builds and persists a student.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Email)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildExperience returns an experience for company written by user. The
// created_at is spread over the last MaxDays days.
func (f *Factory) BuildExperience(user *models.User, company Company, overrides ...func(*models.Experience)) *models.Experience {
	pkg := math.Round(f.faker.Float64Range(company.Package.Min, company.Package.Max)*10) / 10
	result := models.ResultSelected
	if f.faker.Number(1, 100) > 55 {
		result = models.ResultRejected
	}

	exp := &models.Experience{
		UserID:              user.ID,
		CompanyName:         company.Name,
		Role:                f.faker.RandomString(company.Roles),
		PackageOffered:      &pkg,
		InterviewRounds:     f.rounds(company),
		QuestionsAsked:      f.questions(company),
		PreparationStrategy: f.faker.Paragraph(1, 3, 12, " "),
		ResourcesFollowed:   f.pick(company.Resources, 2),
		FinalResult:         result,
		IsAnonymous:         f.faker.Number(1, 10) == 1,
	}
	if result == models.ResultRejected && len(f.cat.RejectionReasons) > 0 {
		exp.RejectionReasons = f.faker.RandomString(f.cat.RejectionReasons)
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	exp.CreatedAt = time.Now().Add(-time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute)

	for _, o := range overrides {
		o(exp)
	}
	return exp
}

func (f *Factory) rounds(company Company) []models.InterviewRound {
	out := make([]models.InterviewRound, 0, len(company.Rounds))
	for _, r := range company.Rounds {
		out = append(out, models.InterviewRound{
			RoundName:  r.Name,
			RoundType:  r.Type,
			Difficulty: r.Difficulty,
			Questions:  []string{},
		})
	}
	return out
}

func (f *Factory) questions(company Company) models.QuestionsByCategory {
	categories := make([]string, 0, len(company.Questions))
	for c := range company.Questions {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := make(models.QuestionsByCategory, 0, len(categories))
	for _, c := range categories {
		out = append(out, models.QuestionCategory{Category: c, Questions: f.pick(company.Questions[c], 2)})
	}
	return out
}

// pick returns up to n distinct entries of src in random order.
func (f *Factory) pick(src []string, n int) []string {
	shuffled := append([]string(nil), src...)
	f.faker.ShuffleStrings(shuffled)
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// CreateExperiencesBatch persists experiences in a single insert when possible.
func (f *Factory) CreateExperiencesBatch(exps []*models.Experience) error {
	if len(exps) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, e := range exps {
			f.nextID++
			e.ID = f.nextID
		}
		log.Printf("[dry-run] CreateExperiencesBatch: %d experiences (no DB write)", len(exps))
		return nil
	}
	return f.db.CreateInBatches(exps, 100).Error
}
