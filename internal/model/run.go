package model

import (
	"time"

	"github.com/google/uuid"
)

// Run describes one complete crawl: its configuration snapshot, timing,
// and aggregate statistics. A Run is created when the crawl starts and
// finalized when the frontier is exhausted.
type Run struct {
	// ID uniquely identifies this run in logs and the database.
	ID string `json:"id"`

	// StartURL is the seed URL the crawl started from.
	StartURL string `json:"start_url"`

	// MaxDepth is the depth bound the crawl ran with.
	MaxDepth int `json:"max_depth"`

	// Concurrency is the worker pool size the crawl ran with.
	Concurrency int `json:"concurrency"`

	// StartedAt is when the frontier was seeded.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock time from seeding to exhaustion.
	Duration time.Duration `json:"duration"`

	// URLsVisited is the number of unique URLs processed.
	URLsVisited int `json:"urls_visited"`

	// ResultCount is the number of results recorded to the sink.
	ResultCount int `json:"result_count"`
}

// NewRun creates a Run for the given seed with a fresh UUID and the
// start time set to now.
func NewRun(startURL string, maxDepth, concurrency int) *Run {
	return &Run{
		ID:          uuid.NewString(),
		StartURL:    startURL,
		MaxDepth:    maxDepth,
		Concurrency: concurrency,
		StartedAt:   time.Now(),
	}
}
