package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchscan/benchscan/config"
	"github.com/benchscan/benchscan/internal/cache"
	"github.com/benchscan/benchscan/internal/dataset"
	"github.com/benchscan/benchscan/internal/duration"
	"github.com/benchscan/benchscan/internal/ghclient"
	"github.com/benchscan/benchscan/internal/log"
	"github.com/benchscan/benchscan/internal/output"
	"github.com/benchscan/benchscan/internal/resolve"
	"github.com/benchscan/benchscan/internal/stats"
)

// NewCmdAnalyze creates the analyze command.
func NewCmdAnalyze(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Resolve contributions against dataset files (same as root benchscan)",
		Long: `Loads benchmark dataset files, looks up each originating issue or PR
on GitHub, and reports every entry the given identity contributed to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	addAnalyzeFlags(cmd, opts)
	return cmd
}

// addAnalyzeFlags adds the analyze-specific flags to a command.
func addAnalyzeFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "GitHub login to analyze (default: authenticated user)")
	cmd.Flags().StringArrayVarP(&opts.Datasets, "dataset", "d", nil, "Dataset file to analyze (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write full JSON report to file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (table, json, summary)")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Skip GitHub API, use dataset text only")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Disable the GitHub response cache")
	cmd.Flags().BoolVar(&opts.ClearCache, "clear-cache", false, "Clear the cache before analyzing")
	cmd.Flags().StringVar(&opts.CacheExpiry, "cache-expiry", "", "Cache expiry window (e.g. 7d, 12h)")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "Per-request timeout (e.g. 10s)")
	cmd.Flags().IntVar(&opts.Retries, "retries", 0, "Retry ceiling for rate limits and transient failures")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}

func runAnalyze(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	paths := opts.Datasets
	if len(paths) == 0 {
		paths = cfg.Datasets
	}
	if len(paths) == 0 {
		return fmt.Errorf("no dataset files given. Use --dataset or set datasets in the config file")
	}

	expiry, err := resolveExpiry(opts, cfg)
	if err != nil {
		return err
	}

	store, err := openStore(opts, cfg, expiry)
	if err != nil {
		return err
	}

	username := opts.Username
	if username == "" {
		username = cfg.Username
	}

	var fetcher resolve.Fetcher
	if !opts.Offline {
		client, err := newClient(ctx, opts, cfg)
		if err != nil {
			return err
		}
		if username == "" {
			username, err = client.AuthenticatedUser(ctx)
			if err != nil {
				return err
			}
			log.Info("using authenticated user", "username", username)
		}
		fetcher = client
	}
	if username == "" {
		return fmt.Errorf("no username given. Use --username or set username in the config file")
	}

	datasets, err := dataset.LoadAll(ctx, paths)
	if err != nil {
		return err
	}

	resolver := resolve.New(store, fetcher, resolve.Options{
		Username: username,
		Offline:  opts.Offline,
	})
	records, runStats, err := resolver.Run(ctx, datasets)
	if err != nil {
		return err
	}

	report := output.NewReport(username, records, runStats)
	recordRunHistory(username, runStats)

	outPath := opts.Output
	if outPath == "" {
		outPath = cfg.Output
	}
	if outPath != "" {
		if err := output.WriteFile(outPath, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report written to %s\n\n", outPath)
		return (&output.SummaryFormatter{}).Format(report, os.Stdout)
	}

	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat
	}
	formatter, err := newFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(report, os.Stdout)
}

func resolveExpiry(opts *Options, cfg *config.Config) (time.Duration, error) {
	if opts.CacheExpiry != "" {
		d, err := duration.Parse(opts.CacheExpiry)
		if err != nil {
			return 0, fmt.Errorf("invalid --cache-expiry: %w", err)
		}
		return d, nil
	}
	return cfg.CacheExpiry()
}

// openStore builds the disk cache unless caching is switched off.
func openStore(opts *Options, cfg *config.Config, expiry time.Duration) (cache.Store, error) {
	if opts.NoCache || !cfg.CacheEnabled() {
		return nil, nil
	}

	dir := cfg.CacheDir()
	if dir == "" {
		var err error
		dir, err = cache.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
	}

	store, err := cache.NewDiskStore(dir, expiry)
	if err != nil {
		return nil, err
	}
	if opts.ClearCache {
		if err := store.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		log.Info("cache cleared", "dir", dir)
	}
	return store, nil
}

func newClient(ctx context.Context, opts *Options, cfg *config.Config) (*ghclient.Client, error) {
	timeout := time.Duration(0)
	if opts.Timeout != "" {
		var err error
		timeout, err = duration.Parse(opts.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
	} else {
		var err error
		timeout, err = cfg.RequestTimeout()
		if err != nil {
			return nil, err
		}
	}

	retries := opts.Retries
	if retries <= 0 {
		retries = cfg.Retries()
	}

	return ghclient.NewClient(ctx, cfg.GetGitHubToken(), ghclient.Options{
		Timeout: timeout,
		Retries: retries,
	})
}

// recordRunHistory appends the run to the local history; failures are
// logged and ignored.
func recordRunHistory(username string, runStats *resolve.RunStats) {
	history, err := stats.NewStore()
	if err != nil {
		log.Debug("run history unavailable", "error", err)
		return
	}
	if err := history.Append(stats.NewSnapshot(username, runStats)); err != nil {
		log.Debug("failed to record run history", "error", err)
	}
}

func newFormatter(format string) (output.Formatter, error) {
	switch format {
	case "", "table":
		return &output.TableFormatter{}, nil
	case "json":
		return &output.JSONFormatter{Pretty: true}, nil
	case "summary":
		return &output.SummaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want table, json, or summary)", format)
	}
}
