package report

import (
	"sync"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// Sink accumulates crawl results in memory until the crawl finishes and
// they are exported. It satisfies the spider's Recorder interface and is
// safe for concurrent use; workers record from multiple goroutines.
//
// Design decision: Results are buffered rather than streamed to disk so
// the output file is written once, atomically from the reader's point of
// view, after the crawl completes. Per-URL result counts are small enough
// that buffering is not a concern at this crawler's scale.
type Sink struct {
	mu      sync.Mutex
	results []model.CrawlResult
}

// NewSink creates an empty result sink.
func NewSink() *Sink {
	return &Sink{}
}

// Record appends one crawl result.
func (s *Sink) Record(result model.CrawlResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// Results returns a copy of all recorded results in record order.
func (s *Sink) Results() []model.CrawlResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CrawlResult, len(s.results))
	copy(out, s.results)
	return out
}

// Len returns the number of recorded results.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
