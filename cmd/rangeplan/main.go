// Package main is the entry point for the rangeplan CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xuenqlve/rangekit/config"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/ranges"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rangeplan",
		Short:         "Interval arithmetic and gap-fill planning for range requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(mergeCmd())
	cmd.AddCommand(gapsCmd())
	cmd.AddCommand(chunkCmd())
	cmd.AddCommand(durationCmd())
	cmd.AddCommand(planCmd())
	cmd.AddCommand(workerCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rangeplan version %s (%s)\n", version, commit)
		},
	}
}

// loadConfig 读取配置并初始化日志
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "--config is required")
	}
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "load config %s", path)
	}
	cfg.InitLog()
	return cfg, nil
}

// parseRange "start:end"
func parseRange(s string) (ranges.Range[float64], error) {
	start, end, ok := strings.Cut(s, ":")
	if !ok {
		return ranges.Range[float64]{}, errors.Errorf("range %q must be start:end", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(start), 64)
	if err != nil {
		return ranges.Range[float64]{}, errors.Annotatef(err, "range %q", s)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(end), 64)
	if err != nil {
		return ranges.Range[float64]{}, errors.Annotatef(err, "range %q", s)
	}
	return ranges.New(lo, hi), nil
}

func parseRanges(args []string) ([]ranges.Range[float64], error) {
	out := make([]ranges.Range[float64], 0, len(args))
	for _, arg := range args {
		r, err := parseRange(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
