package api

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return m, client
}

func TestRedisDeduperClaimRelease(t *testing.T) {
	_, client := setupRedis(t)
	deduper := NewRedisDeduper(client, time.Minute)
	ctx := context.Background()

	claimed, prior, err := deduper.Claim(ctx, "user", "k1")
	if err != nil || !claimed || prior != nil {
		t.Fatalf("first claim = %v %+v %v", claimed, prior, err)
	}
	claimed, prior, err = deduper.Claim(ctx, "user", "k1")
	if err != nil || claimed || prior != nil {
		t.Fatalf("pending claim = %v %+v %v", claimed, prior, err)
	}
	if claimed, _, _ = deduper.Claim(ctx, "other", "k1"); !claimed {
		t.Fatalf("keys must be scoped per user")
	}

	if err := deduper.Release(ctx, "user", "k1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if claimed, _, _ = deduper.Claim(ctx, "user", "k1"); !claimed {
		t.Fatalf("expected key to be reusable after release")
	}
}

func TestRedisDeduperRecord(t *testing.T) {
	m, client := setupRedis(t)
	deduper := NewRedisDeduper(client, time.Minute)
	ctx := context.Background()

	if _, _, err := deduper.Claim(ctx, "user", "k1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	want := BatchOutcome{Status: 404, Processed: 1, Error: "board not found"}
	if err := deduper.Record(ctx, "user", "k1", want); err != nil {
		t.Fatalf("record: %v", err)
	}
	claimed, prior, err := deduper.Claim(ctx, "user", "k1")
	if err != nil || claimed || prior == nil || *prior != want {
		t.Fatalf("claim after record = %v %+v %v", claimed, prior, err)
	}

	m.Set("user:"+dedupeKeyPrefix+":bad", "{")
	if _, _, err := deduper.Claim(ctx, "user", "bad"); err == nil {
		t.Fatalf("expected decode error for corrupt outcome")
	}
}

func TestRedisDeduperKeyNamespacing(t *testing.T) {
	m, client := setupRedis(t)
	deduper := NewRedisDeduper(client, time.Minute)
	ctx := context.Background()
	const (
		userID = "user"
		key    = "k1"
	)

	if _, _, err := deduper.Claim(ctx, userID, key); err != nil {
		t.Fatalf("claim: %v", err)
	}

	expectedKey := userID + ":" + dedupeKeyPrefix + ":" + key
	if !m.Exists(expectedKey) {
		t.Fatalf("expected redis key %q to exist", expectedKey)
	}
	if ttl := m.TTL(expectedKey); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}
