package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OTPKeyPrefix   = "otp:code:%s"
	GraceKeyPrefix = "otp:grace:%s"
	StatsKeyPrefix = "stats:%s:%s"
	statsPattern   = "stats:*"
)

const (
	OTPTTL   = 60 * time.Second
	GraceTTL = 300 * time.Second
	StatsTTL = 60 * time.Second
)

func OTPKey(email string) string {
	return fmt.Sprintf(OTPKeyPrefix, email)
}

func GraceKey(email string) string {
	return fmt.Sprintf(GraceKeyPrefix, email)
}

// StatsKey names a cached statistics result. The filter is lower-cased so
// case variants of one query share an entry.
func StatsKey(kind, filter string) string {
	return fmt.Sprintf(StatsKeyPrefix, kind, strings.ToLower(strings.TrimSpace(filter)))
}

// InvalidateStats drops every cached statistics result.
func InvalidateStats(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, statsPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
