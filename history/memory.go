package history

import (
	"context"
	"slices"
	"time"

	"github.com/xuenqlve/rangekit/cache"
	"github.com/xuenqlve/rangekit/ranges"
)

// MemoryStore 进程内的请求历史，每个 key 在最后一次写入 ttl 之后过期
type MemoryStore[T ranges.Number] struct {
	cache *cache.Cache[[]ranges.Range[T]]
	ttl   time.Duration
}

var _ Store[float64] = (*MemoryStore[float64])(nil)

// NewMemoryStore ttl <= 0 表示永不过期
func NewMemoryStore[T ranges.Number](ttl time.Duration) *MemoryStore[T] {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}
	return &MemoryStore[T]{
		cache: cache.NewCache[[]ranges.Range[T]](expiration, cleanup),
		ttl:   expiration,
	}
}

func (s *MemoryStore[T]) Add(_ context.Context, key string, r ranges.Range[T]) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.cache.Update(key, s.ttl, func(old []ranges.Range[T], _ bool) []ranges.Range[T] {
		// 合并后写入新切片，已返回给调用方的切片不受影响
		return ranges.MergeRanges(append(slices.Clip(old), r))
	})
	return nil
}

func (s *MemoryStore[T]) Ranges(_ context.Context, key string) ([]ranges.Range[T], error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	fetched, _ := s.cache.Get(key)
	return slices.Clone(fetched), nil
}

func (s *MemoryStore[T]) Forget(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore[T]) Close() error {
	return s.cache.Close()
}
