package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/cache"
)

const rateWindow = time.Hour

type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// RateLimiter counts requests in a sliding one-hour window kept as a redis
// sorted set per (cohort, identifier). It is an availability safeguard, so
// a redis outage fails open.
type RateLimiter struct {
	redis   *cache.RedisClient
	logger  *slog.Logger
	preview int
	full    int
}

func NewRateLimiter(redisClient *cache.RedisClient, previewLimit, fullLimit int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		redis:   redisClient,
		logger:  logger,
		preview: previewLimit,
		full:    fullLimit,
	}
}

func (rl *RateLimiter) limitFor(cohort models.Cohort) int {
	if cohort == models.CohortPreview {
		return rl.preview
	}
	return rl.full
}

// Check prunes entries older than one hour, counts the rest, and inserts
// the current request when under the limit. An element exactly one hour
// old is pruned, not counted.
func (rl *RateLimiter) Check(ctx context.Context, cohort models.Cohort, identifier string) RateDecision {
	limit := rl.limitFor(cohort)
	key := fmt.Sprintf("rate:%s:%s", cohort, identifier)
	now := time.Now()
	cutoff := now.Add(-rateWindow)

	pipe := rl.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Warn("rate limiter store unreachable, allowing request",
			"key", key, "error", err)
		return RateDecision{Allowed: true, Limit: limit, Remaining: limit}
	}

	count := int(countCmd.Val())
	if count >= limit {
		return RateDecision{Allowed: false, Limit: limit, Remaining: 0}
	}

	insert := rl.redis.TxPipeline()
	insert.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.New().String(),
	})
	insert.Expire(ctx, key, rateWindow)
	if _, err := insert.Exec(ctx); err != nil {
		rl.logger.Warn("rate limiter insert failed, allowing request",
			"key", key, "error", err)
	}

	return RateDecision{Allowed: true, Limit: limit, Remaining: limit - count - 1}
}
