package fetch

import (
	"context"

	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/ranges"
)

// Loader 先规划缺失的区间，再执行或投递请求
type Loader[T ranges.Number] struct {
	Planner  *Planner[T]
	Executor *Executor[T]
	Sink     Sink[T]
}

// Load fetches whatever part of query is not in the history yet.
func (l *Loader[T]) Load(ctx context.Context, key string, query ranges.Range[T]) (Status, []Result[T], error) {
	requests, err := l.Planner.Plan(ctx, key, query)
	if err != nil {
		return Status{}, nil, err
	}
	if len(requests) == 0 {
		return Status{}, nil, nil
	}
	return l.Executor.Run(ctx, requests)
}

// Dispatch publishes the planned requests to Sink without executing them.
func (l *Loader[T]) Dispatch(ctx context.Context, key string, query ranges.Range[T]) ([]Request[T], error) {
	if l.Sink == nil {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeSink, "sink is nil")
	}
	requests, err := l.Planner.Plan(ctx, key, query)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return requests, nil
	}
	if err = l.Sink.Publish(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}
