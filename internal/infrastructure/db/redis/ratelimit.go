package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitStore counts requests per identifier in fixed windows.
// Key format: ratelimit:<identifier>
//
// It satisfies echo's middleware.RateLimiterStore. Redis failures let the
// request through.
type RateLimitStore struct {
	client *redis.Client
	max    int64
	window time.Duration
	log    zerolog.Logger
}

// NewRateLimitStore allows max requests per identifier within each window.
func NewRateLimitStore(client *redis.Client, max int, window time.Duration, log zerolog.Logger) *RateLimitStore {
	return &RateLimitStore{client: client, max: int64(max), window: window, log: log}
}

// Allow records one request for identifier and reports whether it fits the
// current window.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	n, err := s.hit(ctx, s.key(identifier))
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit check failed, allowing request")
		return true, nil
	}
	return n <= s.max, nil
}

func (s *RateLimitStore) hit(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n, nil
}

func (s *RateLimitStore) key(identifier string) string {
	return "ratelimit:" + identifier
}
