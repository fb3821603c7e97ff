// Package bootstrap wires the database and Redis connections shared by the
// server and the maintenance commands.
package bootstrap

import (
	"fmt"
	"log"

	"campushire/internal/cache"
	"campushire/internal/config"
	"campushire/internal/database"
	"campushire/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// AutoMigrate forces a schema migration, including in production where
	// database.Connect skips it.
	AutoMigrate bool
	// SeedDemo loads demo data into an empty development database.
	SeedDemo bool
}

// InitRuntime connects to DB and Redis. The Redis client is nil when Redis
// is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.AutoMigrate && cfg.IsProduction() {
		if err := database.Migrate(db); err != nil {
			return nil, nil, err
		}
	}

	if opts.SeedDemo {
		if err := seedIfEmpty(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		return nil
	}
	var n int64
	if err := db.Table("experiences").Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("empty database, loading demo data")
	_, err := seed.Seed(db, seed.Options{NumUsers: 20, NumExperiences: 60, ApprovePercent: 70, SkipBcrypt: false})
	return err
}
