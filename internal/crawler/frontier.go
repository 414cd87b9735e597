package crawler

import "sync"

// Entry is one unit of frontier work: a URL and its distance from the
// seed. Entries are immutable once created and consumed exactly once.
type Entry struct {
	// URL is the normalized absolute URL to process.
	URL string

	// Depth is the number of link-following hops from the seed.
	Depth int
}

// Frontier is the crawl work queue: a FIFO of entries, the set of URLs
// ever enqueued, and a counter of entries currently being processed.
//
// All state is guarded by one mutex. The visited check-and-insert in
// Offer is atomic under it, which is what guarantees each discovered URL
// is enqueued at most once system-wide even when several workers offer
// the same URL concurrently.
//
// Design decision: A mutex plus condition variable rather than channels
// because exhaustion detection needs the queue length and the in-flight
// count inspected under one lock. A channel-based queue would need a
// separate tracking structure anyway.
type Frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Entry
	visited  map[string]bool
	maxDepth int

	// inflight counts entries handed out by Take whose Done call is
	// still pending. While it is non-zero, new offers may still arrive.
	inflight int

	// closed becomes true once exhaustion is detected or Close is
	// called. After that, Take returns immediately and Offer rejects.
	closed bool
}

// NewFrontier creates an empty frontier with the given depth bound.
func NewFrontier(maxDepth int) *Frontier {
	f := &Frontier{
		visited:  make(map[string]bool),
		maxDepth: maxDepth,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Seed offers the start URL at depth 0. It reports whether the URL was
// accepted; a seed is rejected only if it is not crawlable.
func (f *Frontier) Seed(rawURL string) bool {
	return f.Offer(rawURL, 0)
}

// Offer proposes a URL for crawling at the given depth. It is a no-op
// when the depth exceeds the bound, the URL is not crawlable, or the URL
// was already enqueued at any point in the run. Returns true if the URL
// was enqueued.
func (f *Frontier) Offer(rawURL string, depth int) bool {
	if depth > f.maxDepth || !IsCrawlable(rawURL) {
		return false
	}

	normalized := NormalizeURL(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.visited[normalized] {
		return false
	}

	// Add-to-visited and push happen under the same lock acquisition,
	// upholding the at-most-once enqueue invariant.
	f.visited[normalized] = true
	f.queue = append(f.queue, Entry{URL: normalized, Depth: depth})
	f.cond.Signal()
	return true
}

// Take removes and returns the next entry, blocking while the queue is
// empty but entries are still in flight (a mid-processing worker may
// offer more work). It returns ok=false once the frontier is permanently
// exhausted: queue empty and nothing in flight. On success the in-flight
// counter is incremented; the caller must call Done after processing.
func (f *Frontier) Take() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if !f.closed && len(f.queue) > 0 {
			entry := f.queue[0]
			f.queue = f.queue[1:]
			f.inflight++
			return entry, true
		}

		if f.closed || f.inflight == 0 {
			// No queued entries and no worker that could produce more:
			// the frontier is exhausted. Wake every blocked worker so
			// they all observe it and exit.
			f.closed = true
			f.cond.Broadcast()
			return Entry{}, false
		}

		f.cond.Wait()
	}
}

// Done signals that processing of a previously taken entry finished.
// When the last in-flight entry completes against an empty queue, all
// blocked Take callers are woken to observe exhaustion.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inflight--
	if f.inflight == 0 && len(f.queue) == 0 {
		f.cond.Broadcast()
	}
}

// Close forces exhaustion: pending and future Take calls return
// ok=false and further offers are rejected. Used for cancellation; the
// natural shutdown path never needs it.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.cond.Broadcast()
}

// Visited reports whether a URL was ever enqueued during this run.
func (f *Frontier) Visited(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[NormalizeURL(rawURL)]
}

// VisitedCount returns the number of unique URLs ever enqueued.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// QueueLen returns the number of entries waiting to be taken.
func (f *Frontier) QueueLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
