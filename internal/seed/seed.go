package seed

import (
	"fmt"
	"log"

	"campushire/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumExperiences int
	// ApprovePercent of generated experiences are approved and published.
	ApprovePercent int
	CataloguePath  string
	ShouldClean    bool
	DryRun         bool
	SkipBcrypt     bool
	MaxDays        int
	RandSeed       int64
}

// Result reports what a seeding run wrote.
type Result struct {
	Users       int
	Experiences int
	Approved    int
}

// demoAccounts always exist after seeding so developers can log in.
var demoAccounts = []string{"student@example.com", "alumni@example.com"}

// Seed populates the database with demo students and experiences. Demo
// accounts are created once; later runs only add generated data.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	cat, err := LoadCatalogue(opts.CataloguePath)
	if err != nil {
		return nil, err
	}
	log.Printf("seeding %d users and %d experiences across %d companies",
		opts.NumUsers, opts.NumExperiences, len(cat.Companies))

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f := NewFactory(db, cat, opts)
	res := &Result{}

	users, err := ensureDemoAccounts(db, f)
	if err != nil {
		return nil, fmt.Errorf("demo accounts: %w", err)
	}
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		res.Users++
	}

	approvePct := opts.ApprovePercent
	if approvePct < 0 || approvePct > 100 {
		approvePct = 70
	}
	batch := make([]*models.Experience, 0, opts.NumExperiences)
	for i := 0; i < opts.NumExperiences; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		company := cat.Companies[f.faker.Number(0, len(cat.Companies)-1)]
		exp := f.BuildExperience(author, company)
		if f.faker.Number(1, 100) <= approvePct {
			exp.IsApproved, exp.IsPublished = true, true
			res.Approved++
		}
		batch = append(batch, exp)
	}
	if err := f.CreateExperiencesBatch(batch); err != nil {
		return nil, fmt.Errorf("create experiences: %w", err)
	}
	res.Experiences = len(batch)

	log.Printf("seeding complete: %d users, %d experiences (%d published)", res.Users, res.Experiences, res.Approved)
	return res, nil
}

func ensureDemoAccounts(db *gorm.DB, f *Factory) ([]*models.User, error) {
	out := make([]*models.User, 0, len(demoAccounts))
	for _, email := range demoAccounts {
		u, err := f.BuildUser(func(u *models.User) { u.Email = email })
		if err != nil {
			return nil, err
		}
		if f.opts.DryRun {
			f.nextID++
			u.ID = f.nextID
			out = append(out, u)
			continue
		}
		if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(u).Error; err != nil {
			return nil, err
		}
		if u.ID == 0 {
			if err := db.Where("email = ?", email).First(u).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, u)
	}
	return out, nil
}

// clearData removes moderation and experience data, children first.
func clearData(db *gorm.DB) error {
	log.Println("clearing existing data")
	for _, m := range []any{&models.AuditLog{}, &models.Bookmark{}, &models.Experience{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
