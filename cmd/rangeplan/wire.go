package main

import (
	"context"

	"github.com/xuenqlve/rangekit/config"
	"github.com/xuenqlve/rangekit/data_source/clickhouse"
	"github.com/xuenqlve/rangekit/data_source/kafka"
	"github.com/xuenqlve/rangekit/data_source/mongodb"
	"github.com/xuenqlve/rangekit/data_source/mysql"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/event"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/history"
	"github.com/xuenqlve/rangekit/log"
)

// newStore 配置了 redis 时使用 RedisStore，否则使用进程内存
func newStore(ctx context.Context, cfg *config.Config) (history.Store[float64], func(), error) {
	if cfg.Redis == nil {
		store := history.NewMemoryStore[float64](cfg.Fetch.TTL())
		return store, func() { _ = store.Close() }, nil
	}
	client, err := cfg.Redis.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	store := history.NewRedisStore[float64](client, cfg.Redis.Prefix, cfg.Fetch.TTL())
	return store, func() { _ = client.Close() }, nil
}

func newFetcher(ctx context.Context, cfg *config.Config) (fetch.Fetcher[float64], func(), error) {
	switch cfg.Fetch.Source {
	case config.SourceMySQL:
		db, err := cfg.MySQL.Connect()
		if err != nil {
			return nil, nil, err
		}
		f, err := mysql.NewFetcher[float64](db, cfg.MySQL.Query)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return f, func() { _ = db.Close() }, nil
	case config.SourceClickHouse:
		conn, err := cfg.ClickHouse.Connect()
		if err != nil {
			return nil, nil, err
		}
		f, err := clickhouse.NewFetcher[float64](conn, cfg.ClickHouse.Query)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return f, func() { _ = conn.Close() }, nil
	case config.SourceMongoDB:
		client, err := cfg.MongoDB.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		f, err := mongodb.NewFetcher[float64](client, cfg.MongoDB.Query)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return f, func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "fetch source is not configured")
}

func newExecutor(cfg *config.Config, fetcher fetch.Fetcher[float64], store history.Store[float64]) *fetch.Executor[float64] {
	events := event.NewManage()
	events.Register(event.RequestRejected, func(e event.Event) {
		log.Logger().Warn().
			Str("key", e.Key).
			Interface("request_id", e.Value[event.RequestID]).
			Interface("error", e.Value[event.Error]).
			Msg("request will be retried on the next plan")
	})
	return &fetch.Executor[float64]{
		Fetcher:     fetcher,
		Store:       store,
		Concurrency: cfg.Fetch.Concurrency,
		Events:      events,
	}
}

func newPlanner(cfg *config.Config, store history.Store[float64]) *fetch.Planner[float64] {
	return &fetch.Planner[float64]{
		Store:          store,
		MaxRequestSize: cfg.Fetch.MaxRequestSize,
		TotalSamples:   cfg.Fetch.TotalSamples,
	}
}

func newSink(cfg *config.Config) (*kafka.Sink[float64], error) {
	if cfg.Kafka == nil {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "--dispatch needs a [kafka] section")
	}
	return kafka.NewSink[float64](cfg.Kafka)
}
