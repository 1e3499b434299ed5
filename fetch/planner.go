package fetch

import (
	"context"

	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/history"
	"github.com/xuenqlve/rangekit/log"
	"github.com/xuenqlve/rangekit/ranges"
)

// Planner turns a query range into the chunked requests still missing from
// the history store.
type Planner[T ranges.Number] struct {
	Store history.Store[T]
	// MaxRequestSize 单个请求的最大区间长度，<= 0 表示不分块
	MaxRequestSize T
	// TotalSamples 整个查询的采样预算，平均分给每个分块，0 表示不限制
	TotalSamples int
}

func (p *Planner[T]) Plan(ctx context.Context, key string, query ranges.Range[T]) ([]Request[T], error) {
	var fetched []ranges.Range[T]
	if p.Store != nil {
		var err error
		if fetched, err = p.Store.Ranges(ctx, key); err != nil {
			return nil, errors.Annotatef(err, "load history of %s", key)
		}
	}

	gaps := ranges.DetermineExcludedRanges(fetched, &query)
	chunks := ranges.ChunkRanges(gaps, p.MaxRequestSize)

	// 零宽度的缺口没有数据可取
	nonEmpty := chunks[:0:0]
	for _, c := range chunks {
		if c.End > c.Start {
			nonEmpty = append(nonEmpty, c)
		}
	}

	requests := make([]Request[T], 0, len(nonEmpty))
	samples := SamplesPerChunk(p.TotalSamples, len(nonEmpty))
	for _, c := range nonEmpty {
		requests = append(requests, NewRequest(key, c, samples))
	}

	logEvent := log.Logger().Debug().
		Str("key", key).
		Stringer("query", query).
		Int("known", len(fetched))
	if span, ok := ranges.Span(fetched); ok {
		logEvent = logEvent.Stringer("known_span", span)
	}
	logEvent.
		Int("gaps", len(gaps)).
		Int("requests", len(requests)).
		Msg("planned range requests")
	return requests, nil
}

// SamplesPerChunk 向上取整，保证总采样数不少于预算
func SamplesPerChunk(total, chunks int) int {
	if total <= 0 || chunks <= 0 {
		return 0
	}
	return (total + chunks - 1) / chunks
}
