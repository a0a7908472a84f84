package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/deepgram/parley/internal/domain/chat/models"
	"github.com/deepgram/parley/internal/infrastructure/redis"
	"github.com/deepgram/parley/pkg/logger"
)

const keyPrefix = "conversation:"

// Store holds the ordered message history of each conversation. Unknown ids
// behave exactly like empty conversations.
type Store interface {
	Get(ctx context.Context, id string) ([]models.Message, error)
	Append(ctx context.Context, id string, msg models.Message) error
	RemoveLast(ctx context.Context, id string) error
	Trim(ctx context.Context, id string, maxLength int) error
}

// NewStore picks Redis when a service is given and process memory otherwise.
// redis.NewService only returns a service after a successful PING.
func NewStore(redisService *redis.Service, ttl time.Duration) Store {
	if redisService != nil {
		logger.Info(logger.STORE, "Using Redis for conversation storage")
		return NewRedisStore(redisService, ttl)
	}

	logger.Info(logger.STORE, "Using in-memory conversation storage")
	return NewMemoryStore()
}

type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]models.Message),
	}
}

func (ms *MemoryStore) Get(ctx context.Context, id string) ([]models.Message, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	history := ms.conversations[id]
	out := make([]models.Message, len(history))
	copy(out, history)
	return out, nil
}

func (ms *MemoryStore) Append(ctx context.Context, id string, msg models.Message) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.conversations[id] = append(ms.conversations[id], msg)
	return nil
}

func (ms *MemoryStore) RemoveLast(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	history := ms.conversations[id]
	if len(history) == 0 {
		return nil
	}
	ms.conversations[id] = history[:len(history)-1]
	return nil
}

func (ms *MemoryStore) Trim(ctx context.Context, id string, maxLength int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if maxLength < 0 {
		maxLength = 0
	}

	history := ms.conversations[id]
	if len(history) <= maxLength {
		return nil
	}

	// copy so the evicted prefix can be collected
	kept := make([]models.Message, maxLength)
	copy(kept, history[len(history)-maxLength:])
	ms.conversations[id] = kept
	return nil
}

// Len reports the number of conversations held, empty ones included.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.conversations)
}

// RedisStore keeps each conversation as a Redis list of JSON messages. Every
// append refreshes the TTL so idle conversations expire.
type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

func NewRedisStore(redisService *redis.Service, ttl time.Duration) *RedisStore {
	return &RedisStore{redisService: redisService, ttl: ttl}
}

func (rs *RedisStore) Get(ctx context.Context, id string) ([]models.Message, error) {
	vals, err := rs.redisService.Range(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %s: %w", id, err)
	}

	history := make([]models.Message, 0, len(vals))
	for _, v := range vals {
		var msg models.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode message in conversation %s: %w", id, err)
		}
		history = append(history, msg)
	}
	return history, nil
}

func (rs *RedisStore) Append(ctx context.Context, id string, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return rs.redisService.PushTail(ctx, keyPrefix+id, string(data), rs.ttl)
}

func (rs *RedisStore) RemoveLast(ctx context.Context, id string) error {
	return rs.redisService.PopTail(ctx, keyPrefix+id)
}

func (rs *RedisStore) Trim(ctx context.Context, id string, maxLength int) error {
	return rs.redisService.KeepTail(ctx, keyPrefix+id, maxLength)
}
