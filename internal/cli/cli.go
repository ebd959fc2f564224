// Package cli exposes the engine reads as trendctl subcommands. Each command
// loads the dataset once, computes one result and prints it as JSON.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	service "github.com/axioma/trendboard/internal/app"
	"github.com/axioma/trendboard/internal/config"
	"github.com/axioma/trendboard/internal/domain/types"
	"github.com/axioma/trendboard/internal/probe"
	"github.com/axioma/trendboard/pkg/logger"
)

// Errors returned by commands.
var (
	ErrMissingFlag   = errors.New("missing required flag")
	ErrProbeMismatch = errors.New("probe found inconsistencies")
)

type rootOptions struct {
	configFile string
	dataset    string
	logLevel   string
	compact    bool
}

// NewRootCommand builds the trendctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "trendctl",
		Short:         "Compute trend leaderboards and dashboard panels from a dataset file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default: $TRENDBOARD_CONFIG)")
	root.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "dataset JSON file (default: config dataset_path)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "print JSON on one line")

	root.AddCommand(leaderboardCmd(opts))
	root.AddCommand(topicsCmd(opts))
	root.AddCommand(classifyCmd(opts))
	root.AddCommand(overlapCmd(opts))
	root.AddCommand(influenceCmd(opts))
	root.AddCommand(monthsCmd(opts))
	root.AddCommand(newsroomCmd(opts))
	root.AddCommand(distributionCmd(opts))
	root.AddCommand(reportCmd(opts))
	root.AddCommand(probeCmd(opts))

	return root
}

func leaderboardCmd(opts *rootOptions) *cobra.Command {
	var (
		limit int
		graph string
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top topics by aggregated count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				n := limit
				if n == 0 {
					n = svc.DefaultTopN()
				}
				return svc.Leaderboard(ctx, graph, n)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "entries to show, -1 for all (default: config default_top_n)")
	cmd.Flags().StringVar(&graph, "graph", "", "restrict to one graph title")
	return cmd
}

func topicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List every aggregated topic in first-seen order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Topics(ctx)
			})
		},
	}
}

func classifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Split topics into high-demand and untapped buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Classification(ctx)
			})
		},
	}
}

func overlapCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overlap",
		Short: "Show each source's overlap with the reference topics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Overlap(ctx)
			})
		},
	}
}

func influenceCmd(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "influence",
		Short: "Rank platforms by conversation volume for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Influence(ctx, month)
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month column (default: config default_month)")
	return cmd
}

func monthsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months available to influence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Months(ctx)
			})
		},
	}
}

func newsroomCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "newsroom",
		Short: "Show newsroom article counts per topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Newsroom(ctx)
			})
		},
	}
}

func distributionCmd(opts *rootOptions) *cobra.Command {
	var graph string

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Show the normalized observations of one graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if graph == "" {
				return fmt.Errorf("%w: --graph", ErrMissingFlag)
			}
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Distribution(ctx, graph)
			})
		},
	}

	cmd.Flags().StringVar(&graph, "graph", "", "graph title")
	return cmd
}

func reportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Compute every panel from one snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Report(ctx)
			})
		},
	}
}

func probeCmd(opts *rootOptions) *cobra.Command {
	var cfg probe.Config

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Load a running server and check its answers are consistent",
		Long: "Sends concurrent reads to every panel route, verifies the leaderboard and report\n" +
			"agree, and round-trips signup and login. With --dataset the served leaderboard\n" +
			"must also match one computed locally from that file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initLogger(cmd, opts); err != nil {
				return err
			}
			ctx := commandContext(cmd)

			var expected []types.Entry
			if cmd.Flags().Changed("dataset") {
				if err := withService(ctx, opts, func(svc *service.Service) error {
					var err error
					expected, err = svc.Leaderboard(ctx, "", topN(cfg.TopN))
					return err
				}); err != nil {
					return err
				}
			}

			stats, err := probe.Run(ctx, cfg, expected)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), stats, opts.compact); err != nil {
				return err
			}
			if len(stats.Mismatches) > 0 {
				return fmt.Errorf("%w: %d", ErrProbeMismatch, len(stats.Mismatches))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", probe.DefaultBaseURL, "base URL of the service")
	cmd.Flags().IntVar(&cfg.Requests, "requests", probe.DefaultRequests, "read requests to send")
	cmd.Flags().IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "concurrent requests")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "per-request timeout")
	cmd.Flags().IntVar(&cfg.TopN, "top", probe.DefaultTopN, "leaderboard size to verify")
	cmd.Flags().BoolVar(&cfg.SkipAuth, "skip-auth", false, "skip the signup/login round trip")
	return cmd
}

func topN(n int) int {
	if n <= 0 {
		return probe.DefaultTopN
	}
	return n
}

// run evaluates fn against a started service and prints its result.
func run(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *service.Service) (any, error)) error {
	if err := initLogger(cmd, opts); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var v any
	if err := withService(ctx, opts, func(svc *service.Service) error {
		var err error
		v, err = fn(ctx, svc)
		return err
	}); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), v, opts.compact)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// initLogger sends logs to stderr so stdout stays valid JSON.
func initLogger(cmd *cobra.Command, opts *rootOptions) error {
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return logger.SetLevelString(opts.logLevel)
}

// withService starts a service over the configured dataset for the
// duration of fn.
func withService(ctx context.Context, opts *rootOptions, fn func(*service.Service) error) error {
	cfg, err := config.LoadFrom(ctx, opts.configFile)
	if err != nil {
		return err
	}
	if opts.dataset != "" {
		cfg.DatasetPath = opts.dataset
	}

	start := time.Now()
	svc := service.New(
		service.WithLogger(logger.Named("cli")),
		service.WithDatasetPath(cfg.DatasetPath),
		service.WithDefaultTopN(cfg.DefaultTopN),
		service.WithClassifier(cfg.HighDemandThreshold, cfg.UntappedThreshold, cfg.HighDemandPolarity),
		service.WithReferenceGraph(cfg.ReferenceGraph),
		service.WithInfluenceGraph(cfg.InfluenceGraph, cfg.DefaultMonth),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	err = fn(svc)
	logger.Named("cli").Debug(ctx, "command finished",
		logger.String("dataset", cfg.DatasetPath),
		logger.Duration("elapsed", time.Since(start)),
		logger.Error(err))
	return err
}

func printJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
