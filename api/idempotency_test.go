package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

func setupDeduper(t *testing.T, ttl time.Duration) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDeduper(client, ttl), mr
}

func TestRedisDeduperAdd(t *testing.T) {
	d, mr := setupDeduper(t, time.Minute)
	ctx := context.Background()

	fresh, err := d.Add(ctx, "key-1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !fresh {
		t.Fatal("first add should report a new key")
	}

	fresh, err = d.Add(ctx, "key-1")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if fresh {
		t.Fatal("second add should report a duplicate")
	}

	if ttl := mr.TTL("submission:key-1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	fresh, err = d.Add(ctx, "key-2")
	if err != nil || !fresh {
		t.Fatalf("distinct key should be fresh: %v, %v", fresh, err)
	}
}

func TestSubmitProjectDedupesByIdempotencyKey(t *testing.T) {
	d, _ := setupDeduper(t, time.Minute)
	e, s := setupAPI(t, d)

	headers := map[string]string{idempotencyKeyHeader: "retry-1"}
	rec := submitForm(e, formValues("t1", "first project", "3"), headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submission status = %d", rec.Code)
	}

	rec = submitForm(e, formValues("t1", "first project", "3"), headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate submission status = %d, want 200", rec.Code)
	}
	var resp submitResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode duplicate response: %v", err)
	}
	if !resp.Duplicate || resp.Project != nil {
		t.Fatalf("unexpected duplicate response: %+v", resp)
	}
	if got := s.Projects(); len(got) != 1 {
		t.Fatalf("duplicate submission created a record, store holds %d", len(got))
	}

	// A different key creates normally.
	rec = submitForm(e, formValues("t2", "second project", "1"), map[string]string{idempotencyKeyHeader: "retry-2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("distinct key status = %d", rec.Code)
	}
	if got := s.Projects(); len(got) != 2 {
		t.Fatalf("store holds %d projects, want 2", len(got))
	}
}

func TestSubmitProjectDedupeUnavailableRedis(t *testing.T) {
	d, mr := setupDeduper(t, time.Minute)
	mr.Close()
	e, s := setupAPI(t, d)

	rec := submitForm(e, formValues("t1", "first project", "3"), map[string]string{idempotencyKeyHeader: "retry-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submission with broken redis status = %d, want 201", rec.Code)
	}
	if got := s.Projects(); len(got) != 1 {
		t.Fatalf("store holds %d projects, want 1", len(got))
	}
}
