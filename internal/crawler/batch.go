package crawler

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// Batch crawls several seed URLs concurrently under one limit.
//
// Design decision: Batch takes a spider factory rather than one Spider
// because each seed may need differently configured requests (per-host
// cookies, headers, depth overrides) and must not share frontier state
// with other seeds.
type Batch struct {
	// spiderFor creates the spider used for a given seed.
	spiderFor func(seed string) *Spider

	// concurrency is the maximum number of seeds crawled at once.
	// Each seed's spider additionally runs its own worker pool.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchConcurrency sets how many seeds are crawled concurrently.
// Default is 1 (sequential seeds).
func WithBatchConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the batch-level logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch using spiderFor to build one spider per seed.
func NewBatch(spiderFor func(seed string) *Spider, opts ...BatchOption) *Batch {
	b := &Batch{
		spiderFor:   spiderFor,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Crawl runs one crawl per seed and returns the runs in seed order.
// A failed seed (invalid URL, cancellation) leaves a nil slot in the
// result; one seed's failure never aborts the others.
func (b *Batch) Crawl(ctx context.Context, seeds []string) []*model.Run {
	runs := make([]*model.Run, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			run, err := b.spiderFor(seed).Run(ctx, seed)
			if err != nil {
				b.logger.Error("crawl failed", "seed", seed, "error", err)
				// Keep whatever partial run exists; do not cancel
				// the sibling crawls.
			}
			runs[i] = run
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // seed failures are logged, never propagated

	return runs
}
