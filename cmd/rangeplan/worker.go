package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xuenqlve/rangekit/data_source/kafka"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/log"
)

func workerCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "worker --config file",
		Short: "Execute requests published by plan --dispatch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Kafka == nil {
				return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "worker needs a [kafka] section")
			}

			ctx := cmd.Context()
			store, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			fetcher, closeFetcher, err := newFetcher(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFetcher()
			consumer, err := kafka.NewConsumer[float64](cfg.Kafka)
			if err != nil {
				return err
			}
			defer consumer.Close()

			executor := newExecutor(cfg, fetcher, store)
			log.Infof("worker started. topic=%s", cfg.Kafka.Topic)
			return consumer.Run(ctx, func(ctx context.Context, req fetch.Request[float64]) error {
				status, _, err := executor.Run(ctx, []fetch.Request[float64]{req})
				if err != nil {
					// 失败的区间不会写入历史，下次 plan 会重新投递
					log.Warnf("request %s rejected: %v", req.ID, err)
					return nil
				}
				log.Debugf("request %s done: %+v", req.ID, status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a .toml, .yaml or .json config file")
	return cmd
}
