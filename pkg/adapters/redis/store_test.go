package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/onlylist/pkg/adapters/redis"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSlot_Contract(t *testing.T) {
	_, client := setupRedis(t)
	ports.RunSlotContract(t, redis.NewFromClient(client, "tasks"))
}

func TestRedisSlot_KeyLayout(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()

	slot := redis.NewFromClient(client, "tasks", redis.WithPrefix("test:"))
	assert.Equal(t, "tasks", slot.Key())
	assert.Equal(t, "test:tasks", slot.RedisKey())

	require.NoError(t, slot.Set(ctx, []byte(`[]`)))
	got, err := mr.Get("test:tasks")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Zero(t, mr.TTL("test:tasks"), "slot must not expire")
}

func TestRedisSlot_ConnectionError(t *testing.T) {
	client := backend.NewClient(&backend.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	slot := redis.NewFromClient(client, "tasks")

	_, err := slot.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSlotNotFound)
}
