package fetch

import (
	"context"

	uuid "github.com/satori/go.uuid"
	"github.com/xuenqlve/rangekit/ranges"
)

// Row 数据源返回的一行数据
type Row = map[string]any

// Request 一次分块数据请求
type Request[T ranges.Number] struct {
	ID    string          `json:"id"`
	Key   string          `json:"key"`
	Range ranges.Range[T] `json:"range"`
	// Samples is the sample budget for this chunk, 0 when unbounded.
	Samples int `json:"samples,omitempty"`
}

func NewRequest[T ranges.Number](key string, r ranges.Range[T], samples int) Request[T] {
	return Request[T]{
		ID:      uuid.NewV4().String(),
		Key:     key,
		Range:   r,
		Samples: samples,
	}
}

type Result[T ranges.Number] struct {
	Request Request[T]
	Rows    []Row
	Err     error
}

type Fetcher[T ranges.Number] interface {
	Fetch(ctx context.Context, req Request[T]) ([]Row, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T ranges.Number] func(ctx context.Context, req Request[T]) ([]Row, error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, req Request[T]) ([]Row, error) {
	return f(ctx, req)
}

// Sink hands planned requests to another process instead of running them.
type Sink[T ranges.Number] interface {
	Publish(ctx context.Context, requests []Request[T]) error
}
