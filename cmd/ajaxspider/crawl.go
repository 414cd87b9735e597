package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzuercher123/AJAXSpider/internal/config"
	"github.com/jzuercher123/AJAXSpider/internal/crawler"
	"github.com/jzuercher123/AJAXSpider/internal/database"
	"github.com/jzuercher123/AJAXSpider/internal/log"
	"github.com/jzuercher123/AJAXSpider/internal/model"
	"github.com/jzuercher123/AJAXSpider/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl one or more sites and record every response",
		Long: `Crawl performs a breadth-first crawl from each seed URL.

Every discovered page is requested with GET, POST, PUT, DELETE, HEAD,
and OPTIONS. Each response's status, headers, and size are recorded;
links found in successful HTML GET responses are followed up to the
depth bound. Failed requests are logged and skipped.

Examples:
  # Crawl a single site two hops deep (the default)
  ajaxspider crawl https://example.com/

  # Deeper crawl with a larger worker pool
  ajaxspider crawl --depth 3 --concurrency 20 https://example.com/

  # Crawl several seeds concurrently and print a Markdown summary
  ajaxspider crawl -b 4 -m https://a.example/ https://b.example/

  # Use a custom configuration file
  ajaxspider crawl -c myconfig.yaml https://example.com/

Configuration file (.ajaxspider) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 3
  defaults:
    headers:
      X-Scanner: "ajaxspider"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link-following depth (0 = seed page only)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent fetch workers per seed")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each individual request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body bytes to read per request")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of seeds crawled concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ajaxspider in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"JSON result file path (creates directories if needed)")
	cmd.Flags().StringP("log", "l", config.DefaultLogFile,
		"Log file path (logs go to both console and file)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print a Markdown crawl summary to stdout after the export")
	cmd.Flags().Bool("no-db", false,
		"Do not record the crawl in the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Every request is logged, so the log file is opened for the whole run.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := log.NewSpiderLogger(os.Stderr, logFile, cfg.Verbose)
	slog.SetDefault(logger)

	// SIGINT force-closes the frontier via the context; partial results
	// are still exported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.LogFile, err = cmd.Flags().GetString("log")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from the config file.
	// If the user explicitly specified a path, a missing file is an error.
	// Without an explicit path, a missing file means empty overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Crawl history lives in the XDG data directory.
	cfg.DBDir = config.XDGDataDir()

	cfg.StartURLs = args

	return cfg, nil
}

// runCrawl executes the crawl across all seeds and exports the results.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.StartURLs,
		"maxDepth", cfg.MaxDepth,
		"concurrency", cfg.Concurrency,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// All seeds share one HTTP client so transport pooling is global;
	// per-seed request overrides live in each seed's fetcher.
	client := crawler.NewHTTPClient(cfg.Timeout)

	// Each seed records into its own sink so results stay attributable
	// to their run. The factory is called once per seed by the batch.
	var mu sync.Mutex
	sinks := make(map[string]*report.Sink, len(cfg.StartURLs))

	spiderFor := func(seed string) *crawler.Spider {
		sink := report.NewSink()
		mu.Lock()
		sinks[seed] = sink
		mu.Unlock()
		return newSpiderForSeed(cfg, client, sink, logger, seed)
	}

	batch := crawler.NewBatch(spiderFor,
		crawler.WithBatchConcurrency(cfg.BatchSize),
		crawler.WithBatchLogger(logger),
	)

	startTime := time.Now()
	runs := batch.Crawl(ctx, cfg.StartURLs)
	elapsed := time.Since(startTime)

	// Collect results in seed order so the export is deterministic
	// across runs with the same outcome.
	var results []model.CrawlResult
	for _, seed := range cfg.StartURLs {
		mu.Lock()
		sink := sinks[seed]
		mu.Unlock()
		if sink != nil {
			results = append(results, sink.Results()...)
		}
	}

	crawlReport := report.NewReport(runs, results)

	// The export is the run's durable product: its failure is terminal
	// even though individual fetch failures never are. It is logged like
	// every other failure so the log file records why the run ended.
	if err := exportResults(cfg, crawlReport); err != nil {
		logger.Error("failed to write results", "file", cfg.OutputFile, "error", err)
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Printf("Crawl completed in %s: %d result(s) written to %s\n",
		elapsed.Round(time.Millisecond), len(results), cfg.OutputFile)

	if cfg.MarkdownSummary {
		if _, err := report.NewMarkdownWriter(os.Stdout).Write(crawlReport); err != nil {
			logger.Error("failed to write markdown summary", "error", err)
		}
	}

	// History persistence is best effort; the export already succeeded.
	if cfg.SaveToDB {
		saveCrawlHistory(ctx, cfg, runs, sinks, logger)
	}

	// Report cancellation after the partial results are safely exported.
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// newSpiderForSeed creates a spider configured for one seed, applying
// any per-host overrides from the config file.
func newSpiderForSeed(cfg *config.Config, client *http.Client, sink *report.Sink, logger *slog.Logger, seed string) *crawler.Spider {
	var siteConfig config.SiteConfig
	if cfg.SiteConfigs != nil {
		siteConfig = cfg.SiteConfigs.GetSiteConfig(seedHost(seed))
	}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	}
	if siteConfig.Cookie != "" || len(siteConfig.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithRequestOptions(crawler.RequestOptions{
			Cookie:  siteConfig.Cookie,
			Headers: siteConfig.Headers,
		}))
	}

	// A per-site depth overrides the global bound for this seed only.
	maxDepth := cfg.MaxDepth
	if siteConfig.Depth > 0 {
		maxDepth = siteConfig.Depth
	}

	return crawler.NewSpider(
		crawler.NewFetcher(client, fetcherOpts...),
		sink,
		crawler.WithMaxDepth(maxDepth),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithLogger(logger),
	)
}

// exportResults writes the JSON result file.
func exportResults(cfg *config.Config, crawlReport *report.Report) error {
	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	_, err = report.NewJSONWriter(f, report.WithPrettyPrint()).Write(crawlReport)
	return err
}

// saveCrawlHistory persists the runs and their results to the history
// database. Failures are logged, never escalated.
func saveCrawlHistory(ctx context.Context, cfg *config.Config, runs []*model.Run, sinks map[string]*report.Sink, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	for i, run := range runs {
		if run == nil {
			continue
		}
		if err := db.InsertRun(ctx, run); err != nil {
			logger.Error("failed to save run", "run", run.ID, "error", err)
			continue
		}
		if sink := sinks[cfg.StartURLs[i]]; sink != nil {
			if err := db.InsertResults(ctx, run.ID, sink.Results()); err != nil {
				logger.Error("failed to save results", "run", run.ID, "error", err)
				continue
			}
		}
		logger.Info("run saved to history", "run", run.ID, "seed", run.StartURL)
	}
}

// seedHost extracts the bare host from a seed URL for config file lookup.
func seedHost(seed string) string {
	parsed, err := url.Parse(seed)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
