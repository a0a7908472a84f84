package redis

import (
	"context"
	"time"

	"github.com/deepgram/parley/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client *redis.Client
}

// NewService connects using REDIS_URL and REDIS_PASSWORD. It returns nil when
// Redis is not configured or not reachable.
func NewService() *Service {
	url := config.GetRedisURL()

	if url == "" {
		log.Warn().Msg("Redis URL not configured - service will be unavailable")
		return nil
	}

	svc, err := Connect(context.Background(), url, config.GetRedisPassword())
	if err != nil {
		log.Error().
			Err(err).
			Str("addr", url).
			Msg("Failed to establish Redis connection")
		return nil
	}

	return svc
}

// Connect dials addr and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	svc := &Service{
		client: client,
	}
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}

	return svc, nil
}

// PushTail appends values to the list at key and refreshes its expiration
// in the same round trip.
func (s *Service) PushTail(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, value)
	if expiration > 0 {
		pipe.Expire(ctx, key, expiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Dur("expiration", expiration).
			Msg("Critical Redis RPUSH operation failed")
		return err
	}
	return nil
}

// Range returns the whole list at key. A missing key yields an empty slice.
func (s *Service) Range(ctx context.Context, key string) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil && err != redis.Nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Critical Redis LRANGE operation failed")
		return nil, err
	}
	return vals, nil
}

// PopTail removes the last element of the list at key. Popping an empty or
// missing list is not an error.
func (s *Service) PopTail(ctx context.Context, key string) error {
	err := s.client.RPop(ctx, key).Err()
	if err != nil && err != redis.Nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Critical Redis RPOP operation failed")
		return err
	}
	return nil
}

// KeepTail trims the list at key to its last n elements.
func (s *Service) KeepTail(ctx context.Context, key string, n int) error {
	if n <= 0 {
		return s.Delete(ctx, key)
	}
	if err := s.client.LTrim(ctx, key, int64(-n), -1).Err(); err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Int("keep", n).
			Msg("Critical Redis LTRIM operation failed")
		return err
	}
	return nil
}

// Delete removes a key from Redis
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Ping checks if Redis is accessible
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Service) Close() error {
	return s.client.Close()
}
