// Command seed loads demo students and interview experiences.
package main

import (
	"flag"
	"log"

	"campushire/internal/config"
	"campushire/internal/database"
	"campushire/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of students to create")
	numExperiences := flag.Int("experiences", 120, "Number of experiences to create")
	approve := flag.Int("approve", 70, "Percent of experiences to approve and publish")
	catalogue := flag.String("catalogue", "", "Company catalogue YAML (default: built-in)")
	shouldClean := flag.Bool("clean", false, "Delete existing users, experiences and audit logs first")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	fast := flag.Bool("fast", false, "Skip bcrypt for generated passwords")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumExperiences: *numExperiences,
		ApprovePercent: *approve,
		CataloguePath:  *catalogue,
		ShouldClean:    *shouldClean,
		DryRun:         *dryRun,
		SkipBcrypt:     *fast,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d students, %d experiences (%d published)", res.Users, res.Experiences, res.Approved)
	if !*fast {
		log.Printf("All demo students use the password: %s", seed.DemoPassword)
	}
}
