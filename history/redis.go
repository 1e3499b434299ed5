package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/log"
	"github.com/xuenqlve/rangekit/ranges"
)

const (
	DefaultPrefix = "rangekit:history:"
	// compactThreshold 列表长度超过该值时合并重写
	compactThreshold = 64
)

// RedisStore keeps each key as a Redis list of JSON encoded ranges. The TTL
// is refreshed on every write.
type RedisStore[T ranges.Number] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Store[float64] = (*RedisStore[float64])(nil)

func NewRedisStore[T ranges.Number](client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore[T] {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore[T]) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore[T]) Add(ctx context.Context, key string, r ranges.Range[T]) error {
	if err := checkKey(key); err != nil {
		return err
	}
	member, err := json.Marshal(r)
	if err != nil {
		return errors.Trace(err)
	}
	rk := s.redisKey(key)
	var length *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.RPush(ctx, rk, member)
		if s.ttl > 0 {
			pipe.Expire(ctx, rk, s.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.NewRangeError(errors.ErrCodeHistory, errors.Annotatef(err, "rpush %s", rk))
	}
	if length.Val() > compactThreshold {
		if err = s.compact(ctx, rk); err != nil {
			// 合并失败不影响本次写入
			log.Warnf("compact history %s failed: %v", rk, err)
		}
	}
	return nil
}

func (s *RedisStore[T]) Ranges(ctx context.Context, key string) ([]ranges.Range[T], error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	rk := s.redisKey(key)
	members, err := s.client.LRange(ctx, rk, 0, -1).Result()
	if err != nil {
		return nil, errors.NewRangeError(errors.ErrCodeHistory, errors.Annotatef(err, "lrange %s", rk))
	}
	fetched, err := decodeRanges[T](members)
	if err != nil {
		return nil, err
	}
	return ranges.MergeRanges(fetched), nil
}

func (s *RedisStore[T]) Forget(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return errors.NewRangeError(errors.ErrCodeHistory, errors.Trace(err))
	}
	return nil
}

// compact 用合并后的区间重写列表，WATCH 保证期间没有并发写入
func (s *RedisStore[T]) compact(ctx context.Context, rk string) error {
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		members, err := tx.LRange(ctx, rk, 0, -1).Result()
		if err != nil {
			return errors.Trace(err)
		}
		fetched, err := decodeRanges[T](members)
		if err != nil {
			return err
		}
		merged := ranges.MergeRanges(fetched)
		values := make([]any, 0, len(merged))
		for _, r := range merged {
			b, err := json.Marshal(r)
			if err != nil {
				return errors.Trace(err)
			}
			values = append(values, b)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, rk)
			if len(values) > 0 {
				pipe.RPush(ctx, rk, values...)
			}
			if s.ttl > 0 {
				pipe.Expire(ctx, rk, s.ttl)
			}
			return nil
		})
		return errors.Trace(err)
	}, rk)
}

func decodeRanges[T ranges.Number](members []string) ([]ranges.Range[T], error) {
	out := make([]ranges.Range[T], 0, len(members))
	for _, m := range members {
		var r ranges.Range[T]
		if err := json.Unmarshal([]byte(m), &r); err != nil {
			return nil, errors.NewRangeError(errors.ErrCodeHistory, errors.Annotatef(err, "decode range %q", m))
		}
		out = append(out, r)
	}
	return out, nil
}
