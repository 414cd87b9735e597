package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and identify exactly what is
// wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). Callers can use errors.Is()
// for programmatic handling while still getting readable messages.
var (
	// ErrNoStartURL is returned when no seed URL is provided.
	ErrNoStartURL = errors.New("no start URL specified: provide at least one URL argument")

	// ErrInvalidMaxDepth is returned when the depth bound is negative.
	// Use 0 to fetch only the seed page.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidConcurrency is returned when the worker count is below one.
	// Zero workers would never drain the frontier.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive. A zero timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoOutputFile is returned when the output target is empty.
	// The run's only durable product is the export, so it must have a path.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidBatchSize is returned when the seed-level concurrency is
	// below one. One means seeds are crawled sequentially.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be at least 1")
)
