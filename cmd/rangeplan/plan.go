package main

import (
	"github.com/spf13/cobra"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
)

type resultOutput struct {
	Request fetch.Request[float64] `json:"request"`
	Rows    []fetch.Row            `json:"rows,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type loadOutput struct {
	Status  fetch.Status   `json:"status"`
	Results []resultOutput `json:"results"`
	// 按 --order-by 合并排序后的全部数据
	Rows []fetch.Row `json:"rows,omitempty"`
}

func planCmd() *cobra.Command {
	var (
		configPath string
		key        string
		orderBy    []string
		execute    bool
		dispatch   bool
	)

	cmd := &cobra.Command{
		Use:   "plan --config file --key key start:end",
		Short: "Plan the requests still missing for a query range",
		Long: `Plan the requests still missing for a query range.

Already fetched ranges are read from the history store ([redis] when
configured, otherwise an in-process store). By default the planned requests
are printed. --execute runs them against the configured fetch source and
records fulfilled ranges; --dispatch publishes them to [kafka] for a worker.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if execute && dispatch {
				return errors.New("--execute and --dispatch are mutually exclusive")
			}
			query, err := parseRange(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			loader := &fetch.Loader[float64]{Planner: newPlanner(cfg, store)}

			switch {
			case dispatch:
				sink, err := newSink(cfg)
				if err != nil {
					return err
				}
				defer sink.Close()
				loader.Sink = sink
				requests, err := loader.Dispatch(ctx, key, query)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), requests)
			case execute:
				fetcher, closeFetcher, err := newFetcher(ctx, cfg)
				if err != nil {
					return err
				}
				defer closeFetcher()
				loader.Executor = newExecutor(cfg, fetcher, store)
				status, results, loadErr := loader.Load(ctx, key, query)
				out := toLoadOutput(status, results)
				if len(orderBy) > 0 {
					if out.Rows, err = fetch.MergeRows(results, orderBy...); err != nil {
						return err
					}
					// 合并后不再重复输出每个请求的数据
					for i := range out.Results {
						out.Results[i].Rows = nil
					}
				}
				if err = writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
				return loadErr
			}

			requests, err := loader.Planner.Plan(ctx, key, query)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), requests)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a .toml, .yaml or .json config file")
	cmd.Flags().StringVar(&key, "key", "", "History key, e.g. a channel name")
	cmd.Flags().BoolVar(&execute, "execute", false, "Fetch the planned requests from the configured source")
	cmd.Flags().StringSliceVar(&orderBy, "order-by", nil, "With --execute, merge all rows sorted by these columns")
	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "Publish the planned requests to kafka")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func toLoadOutput(status fetch.Status, results []fetch.Result[float64]) loadOutput {
	out := loadOutput{Status: status, Results: make([]resultOutput, 0, len(results))}
	for _, r := range results {
		ro := resultOutput{Request: r.Request, Rows: r.Rows}
		if r.Err != nil {
			ro.Error = r.Err.Error()
		}
		out.Results = append(out.Results, ro)
	}
	return out
}
