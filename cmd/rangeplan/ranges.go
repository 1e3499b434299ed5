package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/ranges"
	"github.com/xuenqlve/rangekit/timeunit"
)

func mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [start:end]...",
		Short: "Merge overlapping or touching ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := parseRanges(args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ranges.MergeRanges(rs))
		},
	}
}

func gapsCmd() *cobra.Command {
	var whole string

	cmd := &cobra.Command{
		Use:   "gaps --whole start:end [start:end]...",
		Short: "Print the parts of --whole not covered by the given ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseRange(whole)
			if err != nil {
				return err
			}
			rs, err := parseRanges(args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ranges.DetermineExcludedRanges(rs, &w))
		},
	}

	cmd.Flags().StringVar(&whole, "whole", "", "Range to find gaps in, as start:end")
	_ = cmd.MarkFlagRequired("whole")
	return cmd
}

func chunkCmd() *cobra.Command {
	var maxSize float64

	cmd := &cobra.Command{
		Use:   "chunk --max size [start:end]...",
		Short: "Split ranges into pieces no longer than --max",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := parseRanges(args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ranges.ChunkRanges(rs, maxSize))
		},
	}

	cmd.Flags().Float64Var(&maxSize, "max", 0, "Maximum chunk length, <= 0 disables chunking")
	return cmd
}

func durationCmd() *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "duration <milliseconds|ISO-8601>",
		Short: "Print a duration in human readable units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			millis, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				ms, isoErr := timeunit.DurationToMilliseconds(args[0])
				if isoErr != nil {
					return errors.Annotatef(isoErr, "duration %q", args[0])
				}
				millis = int64(ms)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), timeunit.MillisToStringWithMaxPrecision(millis, precision))
			return err
		},
	}

	cmd.Flags().IntVar(&precision, "precision", 2, "Number of units to keep")
	return cmd
}
