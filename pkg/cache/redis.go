package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "calendar:"

// RedisStore keeps blocked-date entries in Redis as JSON. The Redis key
// expiry mirrors the TTL as a second guard, but freshness is still
// decided from the stored computed-at timestamp so that a TTL change in
// config takes effect for entries written before it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "redis")),
		now:    time.Now,
	}
}

func (s *RedisStore) Get(ctx context.Context, propertyID string) (*Entry, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+propertyID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", propertyID, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is just a miss; it will be overwritten.
		s.log.Warn("Corrupt cache entry, treating as miss",
			zap.String("property", propertyID),
			zap.Error(err),
		)
		return nil, false, nil
	}

	if s.now().Sub(entry.ComputedAt) >= s.ttl {
		return nil, false, nil
	}

	return &entry, true, nil
}

func (s *RedisStore) Put(ctx context.Context, propertyID string, dates []string) error {
	entry := Entry{
		BlockedDates: dates,
		ComputedAt:   s.now(),
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", propertyID, err)
	}

	if err := s.client.Set(ctx, keyPrefix+propertyID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache put %s: %w", propertyID, err)
	}

	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, propertyID string) error {
	if err := s.client.Del(ctx, keyPrefix+propertyID).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", propertyID, err)
	}
	return nil
}
