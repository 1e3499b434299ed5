package history

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/ranges"
)

func exerciseStore(t *testing.T, store Store[float64]) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Ranges(ctx, "ABC")
	if err != nil {
		t.Fatalf("Ranges: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("new key should be empty, got %v", got)
	}

	for _, r := range []ranges.Range[float64]{{Start: 10, End: 20}, {Start: 0, End: 5}, {Start: 5, End: 8}} {
		if err := store.Add(ctx, "ABC", r); err != nil {
			t.Fatalf("Add(%v): %v", r, err)
		}
	}
	got, err = store.Ranges(ctx, "ABC")
	if err != nil {
		t.Fatalf("Ranges: %v", err)
	}
	want := []ranges.Range[float64]{{Start: 0, End: 8}, {Start: 10, End: 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ranges mismatch (-want +got):\n%s", diff)
	}

	if other, _ := store.Ranges(ctx, "XYZ"); len(other) != 0 {
		t.Errorf("keys must be independent, got %v", other)
	}

	if err := store.Forget(ctx, "ABC"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if got, _ = store.Ranges(ctx, "ABC"); len(got) != 0 {
		t.Errorf("Forget left %v", got)
	}

	if err := store.Add(ctx, "", ranges.New(0.0, 1.0)); !errors.Is(err, errors.ErrEmptyKey) {
		t.Errorf("empty key should be rejected, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore[float64](0)
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int64](30 * time.Millisecond)
	defer store.Close()

	if err := store.Add(ctx, "k", ranges.New[int64](0, 10)); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	got, err := store.Ranges(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("history should have expired, got %v", got)
	}
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int](0)
	defer store.Close()

	_ = store.Add(ctx, "k", ranges.New(0, 10))
	got, _ := store.Ranges(ctx, "k")
	got[0].End = 100
	again, _ := store.Ranges(ctx, "k")
	if again[0].End != 10 {
		t.Errorf("caller mutation leaked into the store: %v", again)
	}
}

// 需要本地 Redis，设置 REDIS_ADDR 后运行
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	defer client.Close()

	prefix := fmt.Sprintf("rangekit:test:%d:", time.Now().UnixNano())
	store := NewRedisStore[float64](client, prefix, time.Minute)
	exerciseStore(t, store)

	// 超过阈值后触发合并
	ctx := context.Background()
	for i := 0; i < compactThreshold+5; i++ {
		if err := store.Add(ctx, "many", ranges.New(float64(i), float64(i)+1)); err != nil {
			t.Fatal(err)
		}
	}
	n, err := client.LLen(ctx, prefix+"many").Result()
	if err != nil {
		t.Fatal(err)
	}
	if n > compactThreshold {
		t.Errorf("list was not compacted, length %d", n)
	}
	_ = store.Forget(ctx, "many")
}
