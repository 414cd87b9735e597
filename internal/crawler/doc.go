// Package crawler implements the crawl engine: the URL frontier, the
// worker pool draining it, and the per-URL processing protocol.
//
// # Architecture
//
//   - Frontier: FIFO queue of (URL, depth) pairs with a visited set and
//     an in-flight counter. The visited check-and-insert is atomic, so a
//     URL is enqueued at most once across the whole run even under
//     concurrent discovery.
//   - Fetcher: wraps an *http.Client into a uniform request/response/
//     failure contract for the six supported methods. No retries.
//   - Parser: extracts absolute, scheme-validated links from HTML.
//   - Spider: runs a fixed pool of workers, each looping
//     take -> fetch six methods -> record -> discover -> offer.
//   - Batch: crawls several seeds concurrently under one limit.
//
// # Termination
//
// The frontier is exhausted when its queue is empty and no worker is
// mid-processing. Take blocks until an entry arrives or exhaustion is
// detected, at which point every blocked worker is woken and exits.
// Queue emptiness alone is not enough: a worker about to offer newly
// discovered links must hold off termination, which is what the
// in-flight counter tracks.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher, sink, crawler.WithMaxDepth(2))
//	run, err := spider.Run(ctx, "http://example.com/")
package crawler
