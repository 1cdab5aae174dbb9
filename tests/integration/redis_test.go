package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vaani-ai/vaani/internal/adapter/cache"
)

func TestRedisCache_SetGetDelete(t *testing.T) {
	env := SetupTestEnvironment(t)
	FlushRedis(t, env.Redis)

	store, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.Set(ctx, "user:abc", `{"name":"Priya"}`, time.Minute); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	val, err := store.Get(ctx, "user:abc")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if val != `{"name":"Priya"}` {
		t.Errorf("Unexpected value: %s", val)
	}

	if err := store.Delete(ctx, "user:abc"); err != nil {
		t.Fatalf("Failed to delete key: %v", err)
	}

	_, err = store.Get(ctx, "user:abc")
	if !errors.Is(err, goredis.Nil) {
		t.Fatalf("Expected redis.Nil after delete, got %v", err)
	}
}

func TestRedisCache_MissReturnsNilError(t *testing.T) {
	env := SetupTestEnvironment(t)
	FlushRedis(t, env.Redis)

	store, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer store.Close()

	_, err = store.Get(context.Background(), "never-set")
	if !errors.Is(err, goredis.Nil) {
		t.Fatalf("Expected redis.Nil on miss, got %v", err)
	}
}

func TestRedisCache_Expiration(t *testing.T) {
	env := SetupTestEnvironment(t)
	FlushRedis(t, env.Redis)

	store, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.Set(ctx, "auth:denylist:tok-1", "revoked", 500*time.Millisecond); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	if _, err := store.Get(ctx, "auth:denylist:tok-1"); err != nil {
		t.Fatalf("Expected key before expiry, got %v", err)
	}

	time.Sleep(time.Second)

	_, err = store.Get(ctx, "auth:denylist:tok-1")
	if !errors.Is(err, goredis.Nil) {
		t.Fatalf("Expected redis.Nil after expiry, got %v", err)
	}
}
