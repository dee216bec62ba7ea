package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/pkg/models"
)

type RateLimitService struct {
	config *config.Config
	logger *logrus.Logger
	window slidingWindow
	now    func() time.Time
}

// slidingWindow trims a user's window, counts what is left and records the request only if
// the count is still under limit.
type slidingWindow interface {
	admit(ctx context.Context, key, member string, now time.Time, window time.Duration, limit int) (count int, admitted bool, err error)
}

// slidingWindowScript runs the trim, count and conditional add atomically so concurrent
// requests cannot both take the last slot.
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local count = redis.call('ZCARD', KEYS[1])
if count < tonumber(ARGV[3]) then
  redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
  redis.call('PEXPIRE', KEYS[1], ARGV[5])
  return {count, 1}
end
return {count, 0}
`)

type redisWindow struct {
	client *redis.Client
}

func (w redisWindow) admit(ctx context.Context, key, member string, now time.Time, window time.Duration, limit int) (int, bool, error) {
	res, err := slidingWindowScript.Run(ctx, w.client, []string{key},
		strconv.FormatInt(now.Add(-window).UnixNano(), 10),
		strconv.FormatInt(now.UnixNano(), 10),
		limit,
		member,
		window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, false, err
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}
	return int(res[0]), res[1] == 1, nil
}

func NewRateLimitService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		config: cfg,
		logger: logger,
		window: redisWindow{client: redisClient},
		now:    time.Now,
	}
}

// windowMember is unique per request, so two requests in the same nanosecond still count twice.
func windowMember(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
}

// CheckLimit counts the request against a sliding window kept in a sorted set per user.
// Denied requests are not recorded and do not extend the window.
func (s *RateLimitService) CheckLimit(ctx context.Context, userID, userTier string) (*models.RateLimitInfo, error) {
	limit := s.limitForTier(userTier)
	window := s.config.Auth.RateLimit.Window
	if window <= 0 {
		window = time.Hour
	}

	key := fmt.Sprintf("rate_limit:user:%s", userID)
	now := s.now()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, admitted, err := s.window.admit(ctx, key, windowMember(now), now, window, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to evaluate rate limit window")
		// Return permissive result if Redis is down
		return &models.RateLimitInfo{
			Limit:     limit,
			Remaining: limit - 1,
			ResetTime: now.Add(window).Unix(),
		}, nil
	}

	remaining := -1
	if admitted {
		// The count excludes the request just added.
		remaining = limit - count - 1
	}

	return &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(window).Unix(),
	}, nil
}

func (s *RateLimitService) IsAllowed(ctx context.Context, userID, userTier string) (bool, *models.RateLimitInfo, error) {
	info, err := s.CheckLimit(ctx, userID, userTier)
	if err != nil {
		return false, nil, err
	}

	allowed := info.Remaining >= 0
	if info.Remaining < 0 {
		info.Remaining = 0
	}
	return allowed, info, nil
}

func (s *RateLimitService) limitForTier(userTier string) int {
	switch userTier {
	case "plus":
		if s.config.Auth.RateLimit.Plus > 0 {
			return s.config.Auth.RateLimit.Plus
		}
	}
	if s.config.Auth.RateLimit.Default > 0 {
		return s.config.Auth.RateLimit.Default
	}
	return 600
}
