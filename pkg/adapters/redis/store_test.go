package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunTranscriptStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	id := "transcript-ttl"
	transcript := domain.NewTranscript(id, "echo hi", nil, domain.Result{
		Status: domain.StatusCompleted,
		Output: "hi\r\n",
	})

	// 1. Save
	err = store.Save(ctx, transcript)
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, id)

	// 3. Fast forward time in miniredis (for key expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)

	// 5. Verify List (lazily cleaned up). The prune score comes from
	// time.Now(), which miniredis cannot fast-forward, so wait out the
	// real TTL before checking.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Custom prefix
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	id := "my-transcript"

	err = store.Save(ctx, domain.NewTranscript(id, "true", nil, domain.Result{Status: domain.StatusCompleted}))
	assert.NoError(t, err)

	// Verify keys in Redis directly
	exists := mr.Exists("custom:app:my-transcript")
	assert.True(t, exists, "Expected key with custom prefix to exist")

	existsIndex := mr.Exists("custom:app:index")
	assert.True(t, existsIndex, "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, id)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ctx := context.Background()

	err = store.Save(ctx, domain.NewTranscript("abc", "true", nil, domain.Result{Status: domain.StatusCompleted}))
	assert.NoError(t, err)
	assert.True(t, mr.Exists("espalier:transcript:abc"))
}
