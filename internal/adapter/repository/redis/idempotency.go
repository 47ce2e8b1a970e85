package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/usecase"
)

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client *redis.Client, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "idempotency:",
		metrics: m,
	}
}

// CheckAndSet claims key with SETNX. When the key is already claimed it
// returns true and whatever is stored: the cached response, or the
// processing marker if the first request has not finished yet.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = usecase.IdempotencyInFlight
	if response != nil {
		value = response
	}

	s.count("setnx")
	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		s.fail("setnx")
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	s.count("get")
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; the caller may retry.
		return true, nil, nil
	}
	if err != nil {
		s.fail("get")
		return false, nil, err
	}

	return true, existing, nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.count("set")
	if err := s.client.Set(ctx, s.prefix+key, response, ttl).Err(); err != nil {
		s.fail("set")
		return err
	}
	return nil
}

// Release removes key so a failed request can be retried with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.count("del")
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.fail("del")
		return err
	}
	return nil
}

func (s *IdempotencyStore) count(op string) {
	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues(op).Inc()
	}
}

func (s *IdempotencyStore) fail(op string) {
	if s.metrics != nil {
		s.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
