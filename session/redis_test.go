package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisBinding(t *testing.T, ttl time.Duration) (*RedisBinding, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return NewRedisBinding(rdb, "agriauth", ttl), mr
}

func TestRedisBindingRoundTrip(t *testing.T) {
	binding, _ := newRedisBinding(t, 0)

	if _, ok, err := binding.Read("u42"); ok || err != nil {
		t.Fatalf("empty read: ok=%v err=%v", ok, err)
	}

	if err := binding.Write("u42", []byte("payload")); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, ok, err := binding.Read("u42")
	if err != nil || !ok || string(data) != "payload" {
		t.Fatalf("read = %q ok=%v err=%v", data, ok, err)
	}

	if err := binding.Remove("u42"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := binding.Read("u42"); ok {
		t.Fatal("slot survived remove")
	}
}

func TestRedisBindingTTL(t *testing.T) {
	binding, mr := newRedisBinding(t, time.Minute)

	if err := binding.Write("u42", []byte("payload")); err != nil {
		t.Fatalf("write: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := binding.Read("u42"); ok {
		t.Fatal("slot survived TTL expiry")
	}
}

func TestRedisBindingBacksStore(t *testing.T) {
	binding, _ := newRedisBinding(t, 0)

	store := NewStore(binding, "u42")
	store.SetToken("T1")
	store.SetClaims(&Claims{Role: "agronomist", SubRole: "supervisor"})

	rehydrated := NewStore(binding, "u42")
	if err := rehydrated.Hydrate(); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if rehydrated.Token() != "T1" {
		t.Fatalf("token = %q, want T1", rehydrated.Token())
	}
	if c := rehydrated.Claims(); c == nil || c.SubRole != "supervisor" {
		t.Fatalf("claims = %+v", c)
	}
}
