package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/config"
)

// CachedSource keeps the holidays of each year in Redis so the upstream
// API is queried at most once per TTL.
type CachedSource struct {
	next    Source
	rdb     *redis.Client
	country string
	ttl     time.Duration
	log     zerolog.Logger
}

// NewCachedSource wraps next with a Redis cache.
func NewCachedSource(next Source, rdb *redis.Client, country string, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{
		next:    next,
		rdb:     rdb,
		country: country,
		ttl:     ttl,
		log:     log.With().Str("component", "holiday_cache").Logger(),
	}
}

func (s *CachedSource) HolidaysFor(ctx context.Context, year int) (Set, error) {
	key := config.CacheKey.HolidaysKey(s.country, year)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var set Set
		if jsonErr := json.Unmarshal(raw, &set); jsonErr == nil {
			return set, nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding unreadable holiday cache entry")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("key", key).Msg("Holiday cache read failed")
	}

	set, err := s.next.HolidaysFor(ctx, year)
	if err != nil {
		return set, err
	}

	payload, _ := json.Marshal(set)
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Holiday cache write failed")
	}
	return set, nil
}

// Refresh drops the cached year and fetches it again.
func (s *CachedSource) Refresh(ctx context.Context, year int) (Set, error) {
	if err := s.rdb.Del(ctx, config.CacheKey.HolidaysKey(s.country, year)).Err(); err != nil {
		return nil, err
	}
	return s.HolidaysFor(ctx, year)
}
