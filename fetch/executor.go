package fetch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/event"
	"github.com/xuenqlve/rangekit/history"
	"github.com/xuenqlve/rangekit/log"
	"github.com/xuenqlve/rangekit/ranges"
)

const DefaultConcurrency = 4

// Status 一批请求的执行状态
type Status struct {
	Pending   int `json:"pending"`
	Fulfilled int `json:"fulfilled"`
	Rejected  int `json:"rejected"`
}

func (s Status) IsLoading() bool { return s.Pending > 0 }
func (s Status) IsError() bool   { return s.Rejected > 0 }

// Executor runs requests concurrently. Fulfilled ranges are recorded in
// Store; rejected ones are not, so the next plan asks for them again.
type Executor[T ranges.Number] struct {
	Fetcher     Fetcher[T]
	Store       history.Store[T]
	Concurrency int
	Events      event.Subject
}

// Run 返回的 results 与 requests 顺序一致，err 汇总所有失败的请求
func (e *Executor[T]) Run(ctx context.Context, requests []Request[T]) (Status, []Result[T], error) {
	if e.Fetcher == nil {
		return Status{}, nil, errors.ErrNilFetcher
	}
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		status  = Status{Pending: len(requests)}
		results = make([]Result[T], len(requests))
		errs    []error
	)
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, req := range requests {
		g.Go(func() error {
			rows, err := e.fetch(ctx, req)
			results[i] = Result[T]{Request: req, Rows: rows, Err: err}

			mu.Lock()
			defer mu.Unlock()
			status.Pending--
			if err != nil {
				status.Rejected++
				errs = append(errs, err)
			} else {
				status.Fulfilled++
			}
			return nil
		})
	}
	_ = g.Wait()

	return status, results, errors.Join(errs...)
}

func (e *Executor[T]) fetch(ctx context.Context, req Request[T]) ([]Row, error) {
	logger := log.Logger().With().Str("key", req.Key).Str("request_id", req.ID).Stringer("range", req.Range).Logger()

	rows, err := e.doFetch(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Msg("range request rejected")
		e.upload(event.RejectedEvent(req.Key, req.ID, req.Range.Start, req.Range.End, err))
		return nil, errors.NewRangeError(errors.ErrCodeFetch, fmt.Errorf("request %s %s: %w", req.ID, req.Range, err))
	}

	if e.Store != nil {
		if err := e.Store.Add(ctx, req.Key, req.Range); err != nil {
			// 数据已经取到，历史写入失败只会导致下次重复请求
			logger.Error().Err(err).Msg("record history failed")
		}
	}
	logger.Debug().Int("rows", len(rows)).Msg("range request fulfilled")
	e.upload(event.FulfilledEvent(req.Key, req.ID, req.Range.Start, req.Range.End))
	return rows, nil
}

func (e *Executor[T]) doFetch(ctx context.Context, req Request[T]) (rows []Row, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("fetcher panic: %v", r)
		}
	}()
	return e.Fetcher.Fetch(ctx, req)
}

func (e *Executor[T]) upload(ev event.Event) {
	if e.Events != nil {
		e.Events.Upload(ev)
	}
}
