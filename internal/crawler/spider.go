package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// Recorder receives crawl results as they are produced. Implementations
// must be safe for concurrent callers; workers record from multiple
// goroutines.
type Recorder interface {
	Record(result model.CrawlResult)
}

// Spider coordinates one crawl: it seeds the frontier, runs a fixed pool
// of workers draining it, and records per-URL outcomes to the sink.
//
// Design decision: We call it "Spider" rather than "Crawler" because it
// is the traditional term and reads better against the package name:
// crawler.NewSpider() vs crawler.NewCrawler().
type Spider struct {
	// fetcher issues the HTTP requests. Shared by all workers.
	fetcher *Fetcher

	// sink accumulates results for later export.
	sink Recorder

	// maxDepth limits link-following hops from the seed.
	// 0 means only the seed page.
	maxDepth int

	// concurrency is the worker pool size. It bounds in-flight fetches.
	concurrency int

	// logger receives one Info record per attempted request and one
	// Error record per fetch failure.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the seed page, 1 = seed plus directly linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithConcurrency sets the number of workers. Values below 1 are ignored.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the spider's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider recording results to sink.
func NewSpider(fetcher *Fetcher, sink Recorder, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:     fetcher,
		sink:        sink,
		maxDepth:    2,
		concurrency: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Run performs the entire crawl from startURL and returns once the
// frontier is exhausted and every worker has terminated. The returned
// Run carries the crawl's statistics.
//
// Termination is cooperative: when the queue is empty and no entry is in
// flight, all blocked workers are woken and exit. Cancelling ctx force-
// closes the frontier so no Take blocks forever; in-flight fetches fail
// fast through the request context.
func (s *Spider) Run(ctx context.Context, startURL string) (*model.Run, error) {
	frontier := NewFrontier(s.maxDepth)
	if !frontier.Seed(startURL) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStartURL, startURL)
	}

	run := model.NewRun(startURL, s.maxDepth, s.concurrency)
	s.logger.Info("crawl started",
		"run", run.ID,
		"url", startURL,
		"maxDepth", s.maxDepth,
		"concurrency", s.concurrency,
	)

	// Wake blocked workers if the context is cancelled; natural
	// termination never needs this.
	stop := context.AfterFunc(ctx, frontier.Close)
	defer stop()

	var recorded atomic.Int64

	var g errgroup.Group
	for i := 0; i < s.concurrency; i++ {
		g.Go(func() error {
			for {
				entry, ok := frontier.Take()
				if !ok {
					return nil
				}
				s.process(ctx, frontier, entry, &recorded)
				frontier.Done()
			}
		})
	}

	// Workers contain all per-URL failures; they never return errors.
	_ = g.Wait() //nolint:errcheck // worker goroutines always return nil

	run.Duration = time.Since(run.StartedAt)
	run.URLsVisited = frontier.VisitedCount()
	run.ResultCount = int(recorded.Load())

	s.logger.Info("crawl finished",
		"run", run.ID,
		"urlsVisited", run.URLsVisited,
		"results", run.ResultCount,
		"elapsed", run.Duration,
	)

	if err := ctx.Err(); err != nil {
		return run, err
	}
	return run, nil
}

// process executes the per-URL protocol: the six methods in their fixed
// order, sequentially to bound load on the target. Each success is
// recorded; each transport failure is logged and skipped. A successful
// HTML GET additionally feeds discovered links back to the frontier at
// the next depth.
func (s *Spider) process(ctx context.Context, frontier *Frontier, entry Entry, recorded *atomic.Int64) {
	for _, method := range Methods {
		resp, err := s.fetcher.Fetch(ctx, method, entry.URL)
		if err != nil {
			s.logger.Error("fetch failed",
				"method", method,
				"url", entry.URL,
				"error", err,
			)
			continue
		}

		s.logger.Info("fetched",
			"method", method,
			"url", entry.URL,
			"status", resp.StatusCode,
		)

		s.sink.Record(model.CrawlResult{
			URL:           entry.URL,
			Method:        method,
			StatusCode:    resp.StatusCode,
			Headers:       resp.FlattenedHeaders(),
			ContentLength: int64(len(resp.Body)),
			ContentType:   resp.ContentType,
		})
		recorded.Add(1)

		if method == http.MethodGet && isSuccess(resp.StatusCode) && resp.IsHTML() && len(resp.Body) > 0 {
			for _, link := range ExtractLinks(resp.Body, entry.URL, resp.ContentType) {
				frontier.Offer(link, entry.Depth+1)
			}
		}
	}
}

// isSuccess reports whether a status code indicates a successful
// response worth mining for links.
func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
