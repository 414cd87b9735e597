package model

// CrawlResult is the recorded outcome of one (URL, method) fetch attempt.
// One result is appended to the sink per successful request; transport
// failures are logged and produce no result.
//
// Design decision: We flatten response headers to a single value per name
// because:
//  1. The export format maps header names to single strings
//  2. Repeated headers are rare on the pages we crawl and the first
//     value is almost always the meaningful one
//  3. It keeps the JSON output stable and easy to diff
type CrawlResult struct {
	// URL is the absolute URL that was requested.
	URL string `json:"url"`

	// Method is the HTTP method used for this attempt (GET, POST, ...).
	Method string `json:"method"`

	// StatusCode is the HTTP response status code. Non-2xx codes are
	// valid results, not failures.
	StatusCode int `json:"status_code"`

	// Headers contains the response headers, first value per name.
	Headers map[string]string `json:"headers"`

	// ContentLength is the number of body bytes read, capped by the
	// configured body size limit. Zero for HEAD responses.
	ContentLength int64 `json:"content_length,omitempty"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type,omitempty"`
}

// Key returns a stable identity for the result, used by tests and the
// database layer to compare collections as sets.
func (r CrawlResult) Key() string {
	return r.Method + " " + r.URL
}
