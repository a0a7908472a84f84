package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deepgram/parley/internal/domain/chat/models"
	"github.com/deepgram/parley/internal/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)

	svc, err := redis.Connect(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return NewRedisStore(svc, time.Hour)
}

func storeImplementations(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"redis":  func() Store { return newRedisStore(t) },
	}
}

func messages(n int) []models.Message {
	out := make([]models.Message, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = models.NewUserMessage(fmt.Sprintf("question %d", i))
		} else {
			out[i] = models.NewAssistantMessage(fmt.Sprintf("answer %d", i))
		}
	}
	return out
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("unseen conversation is empty", func(t *testing.T) {
				store := newStore()
				history, err := store.Get(ctx, "never-seen")
				require.NoError(t, err)
				assert.Empty(t, history)
			})

			t.Run("append preserves order", func(t *testing.T) {
				store := newStore()
				want := messages(3)
				for _, msg := range want {
					require.NoError(t, store.Append(ctx, "c1", msg))
				}

				history, err := store.Get(ctx, "c1")
				require.NoError(t, err)
				assert.Equal(t, want, history)
			})

			t.Run("conversations are independent", func(t *testing.T) {
				store := newStore()
				require.NoError(t, store.Append(ctx, "a", models.NewUserMessage("for a")))
				require.NoError(t, store.Append(ctx, "b", models.NewUserMessage("for b")))

				history, err := store.Get(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, []models.Message{models.NewUserMessage("for a")}, history)
			})

			t.Run("remove last restores previous state", func(t *testing.T) {
				store := newStore()
				before := messages(2)
				for _, msg := range before {
					require.NoError(t, store.Append(ctx, "c1", msg))
				}
				require.NoError(t, store.Append(ctx, "c1", models.NewUserMessage("rolled back")))
				require.NoError(t, store.RemoveLast(ctx, "c1"))

				history, err := store.Get(ctx, "c1")
				require.NoError(t, err)
				assert.Equal(t, before, history)
			})

			t.Run("remove last on empty conversation is a no-op", func(t *testing.T) {
				store := newStore()
				assert.NoError(t, store.RemoveLast(ctx, "empty"))

				history, err := store.Get(ctx, "empty")
				require.NoError(t, err)
				assert.Empty(t, history)
			})

			t.Run("trim keeps the trailing messages", func(t *testing.T) {
				store := newStore()
				all := messages(21)
				for _, msg := range all {
					require.NoError(t, store.Append(ctx, "c1", msg))
				}
				require.NoError(t, store.Trim(ctx, "c1", 20))

				history, err := store.Get(ctx, "c1")
				require.NoError(t, err)
				assert.Len(t, history, 20)
				assert.Equal(t, all[1:], history)
			})

			t.Run("trim below the cap changes nothing", func(t *testing.T) {
				store := newStore()
				all := messages(5)
				for _, msg := range all {
					require.NoError(t, store.Append(ctx, "c1", msg))
				}
				require.NoError(t, store.Trim(ctx, "c1", 20))

				history, err := store.Get(ctx, "c1")
				require.NoError(t, err)
				assert.Equal(t, all, history)
			})
		})
	}
}

func TestMemoryStoreGetDoesNotCreate(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, "c1", models.NewUserMessage("original")))

	history, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	history[0].Content = "mutated"

	again, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestNewStore(t *testing.T) {
	t.Run("nil redis falls back to memory", func(t *testing.T) {
		_, ok := NewStore(nil, time.Hour).(*MemoryStore)
		assert.True(t, ok)
	})

	t.Run("reachable redis is used", func(t *testing.T) {
		mr := miniredis.RunT(t)
		svc, err := redis.Connect(context.Background(), mr.Addr(), "")
		require.NoError(t, err)
		defer svc.Close()

		_, ok := NewStore(svc, time.Hour).(*RedisStore)
		assert.True(t, ok)
	})
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	svc, err := redis.Connect(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer svc.Close()

	store := NewRedisStore(svc, time.Minute)
	require.NoError(t, store.Append(ctx, "c1", models.NewUserMessage("hello")))

	mr.FastForward(2 * time.Minute)

	history, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
