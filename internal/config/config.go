package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the defaults of the original AJAXSpider where applicable.
const (
	// DefaultMaxDepth limits link-following to two hops from the seed.
	// Depth 0 fetches only the seed page. Two hops covers the immediate
	// neighborhood of a site without exploding the frontier.
	DefaultMaxDepth = 2

	// DefaultConcurrency is the worker pool size. Ten concurrent fetches
	// keeps network waits overlapped without overwhelming a single host.
	DefaultConcurrency = 10

	// DefaultOutputFile is where the JSON result export is written.
	DefaultOutputFile = "output.json"

	// DefaultLogFile is the log destination alongside the console.
	DefaultLogFile = "spider.log"

	// DefaultTimeout applies to each individual HTTP request. A request
	// exceeding it is reported as a fetch failure, never retried.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies the spider in HTTP requests.
	// A descriptive User-Agent lets operators recognize crawler traffic.
	DefaultUserAgent = "AJAXSpider/1.0 (+https://github.com/jzuercher123/AJAXSpider)"

	// DefaultMaxBodySize caps how many response body bytes are read.
	// 5MB is sufficient for any HTML page while bounding memory use.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultBatchSize is how many seeds are crawled concurrently.
	// Sequential by default; each seed already runs its own worker pool.
	DefaultBatchSize = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "ajaxspider"
)

// Config holds all options for a crawl run. It is immutable for the
// lifetime of the run.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// StartURLs are the seed URLs. Each seed produces one crawl run.
	// At least one is required.
	StartURLs []string

	// MaxDepth is the maximum number of link-following hops from a seed.
	// Depth 0 means only the seed page is fetched.
	MaxDepth int

	// Concurrency is the number of workers draining the frontier.
	// It bounds the number of in-flight fetches.
	Concurrency int

	// OutputFile is the path the JSON result export is written to.
	OutputFile string

	// LogFile is the path log records are written to, in addition to
	// the console.
	LogFile string

	// Timeout is the per-request timeout. It converts slow requests into
	// fetch failures; it never cancels the crawl as a whole.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// BatchSize is how many seeds are crawled concurrently. Each seed's
	// spider additionally runs its own worker pool of Concurrency workers.
	BatchSize int

	// Verbose enables slog.LevelDebug output. When false, Info and
	// Error records are still emitted (every request is logged).
	Verbose bool

	// MarkdownSummary enables a Markdown run summary on stdout after
	// the JSON export completes.
	MarkdownSummary bool

	// ConfigFilePath is the path to the YAML config file. If empty, the
	// tool searches for .ajaxspider in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-host request overrides loaded from the
	// config file (cookie, headers, depth).
	SiteConfigs *File

	// SaveToDB indicates whether runs are persisted to the history
	// database. Enabled by default; --no-db turns it off.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. It also documents what the defaults
// are in one place.
func NewConfig() *Config {
	return &Config{
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
		OutputFile:  DefaultOutputFile,
		LogFile:     DefaultLogFile,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for AJAXSpider.
// On Linux: ~/.local/share/ajaxspider
// On macOS: ~/Library/Application Support/ajaxspider
// On Windows: %LOCALAPPDATA%\ajaxspider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid and returns a specific
// sentinel error describing the first problem found.
//
// Design decision: We validate once after CLI parsing rather than at each
// point of use, so the run fails fast with a clear message. The first
// error is returned because fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.StartURLs) == 0 {
		return ErrNoStartURL
	}

	// Depth 0 is valid (seed page only); negative depth is not.
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	// At least one worker is required to drain the frontier.
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	if c.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	return nil
}
