package cache

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testClient returns a Redis client for tests. Skips if Redis is unavailable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	t.Cleanup(func() {
		New(client, time.Minute).Purge(ctx)
		client.Close()
	})
	return client
}

func TestKeyIsStableAndPrefixed(t *testing.T) {
	a := Key("template=blog&title=Hi")
	if a != Key("template=blog&title=Hi") {
		t.Error("key is not stable")
	}
	if a == Key("template=blog&title=Ho") {
		t.Error("different parameters share a key")
	}
	if !strings.HasPrefix(a, keyPrefix) || len(a) != len(keyPrefix)+64 {
		t.Errorf("key = %q", a)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *ImageCache
	ctx := context.Background()
	c.Set(ctx, "x", []byte("png"))
	if _, ok := c.Get(ctx, "x"); ok {
		t.Error("nil cache reported a hit")
	}
	if n, err := c.Purge(ctx); n != 0 || err != nil {
		t.Errorf("Purge = %d, %v", n, err)
	}
}

func TestSetGetPurge(t *testing.T) {
	c := New(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "template=blog"); ok {
		t.Fatal("unexpected hit before Set")
	}
	want := []byte{0x89, 'P', 'N', 'G'}
	c.Set(ctx, "template=blog", want)
	got, ok := c.Get(ctx, "template=blog")
	if !ok || !bytes.Equal(got, want) {
		t.Fatalf("Get = %v, %v", got, ok)
	}

	n, err := c.Purge(ctx)
	if err != nil || n < 1 {
		t.Fatalf("Purge = %d, %v", n, err)
	}
	if _, ok := c.Get(ctx, "template=blog"); ok {
		t.Error("hit after Purge")
	}
}

func TestTTLApplied(t *testing.T) {
	client := testClient(t)
	c := New(client, 30*time.Second)
	ctx := context.Background()

	c.Set(ctx, "ttl", []byte("x"))
	ttl, err := client.TTL(ctx, Key("ttl")).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > 30*time.Second {
		t.Errorf("ttl = %v", ttl)
	}
}
