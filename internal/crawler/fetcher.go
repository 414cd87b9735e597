package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Methods lists the HTTP methods attempted for every URL, in the fixed
// order they are issued. The order is part of the processing contract:
// GET runs first so link discovery happens before the side-effect-free
// probes of the remaining methods.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// Response is the uniform success value of a fetch: status, headers, and
// the (size-capped) body. Non-2xx status codes are valid responses, not
// failures; only transport-level problems surface as errors.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Headers contains the response headers as received.
	Headers http.Header

	// Body is the response body, truncated to the configured size cap.
	// Empty for HEAD responses.
	Body []byte

	// ContentType is the Content-Type header value, kept separately
	// because nearly every caller needs it.
	ContentType string
}

// IsHTML reports whether the response body is HTML.
func (r *Response) IsHTML() bool {
	return strings.Contains(r.ContentType, "text/html")
}

// FlattenedHeaders returns the headers as a single value per name, the
// shape the export format uses.
func (r *Response) FlattenedHeaders() map[string]string {
	flat := make(map[string]string, len(r.Headers))
	for name := range r.Headers {
		flat[name] = r.Headers.Get(name)
	}
	return flat
}

// RequestOptions enumerates the request fields a crawl may customize.
//
// Design decision: An explicit struct rather than an open options map, so
// only recognized fields ever reach the wire. Anything a caller wants to
// send must have a field here.
type RequestOptions struct {
	// Headers are extra request headers applied to every request.
	Headers map[string]string

	// Cookie is a raw Cookie header value (e.g., "session=abc123").
	Cookie string

	// Body is the request body sent with methods that carry one
	// (POST and PUT). Empty means no body.
	Body string
}

// Fetcher wraps an *http.Client into the crawl engine's fetch contract:
// one call per (URL, method), returning either a Response or an error.
// It applies the configured user agent, request options, and body size
// cap uniformly. It performs no retries; retry policy belongs to callers
// and none is configured.
//
// A Fetcher is safe for concurrent use by multiple workers because the
// underlying http.Client is.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	options     RequestOptions
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithRequestOptions sets the per-request customizations (headers,
// cookie, body) applied to every fetch.
func WithRequestOptions(opts RequestOptions) FetcherOption {
	return func(f *Fetcher) {
		f.options = opts
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client rather than building one
// internally because:
//  1. Transport concerns (pooling, redirects, TLS) live in one place
//  2. Tests can substitute an httptest client
//  3. Workers can share a single concurrency-safe client
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "AJAXSpider/1.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one HTTP request and returns the uniform response value.
// Transport failures (DNS, connect, timeout) are returned as errors with
// the method and URL attached; the caller decides whether to log and
// continue. HTTP error statuses are not errors.
func (f *Fetcher) Fetch(ctx context.Context, method, rawURL string) (*Response, error) {
	var body io.Reader
	if f.options.Body != "" && methodCarriesBody(method) {
		body = strings.NewReader(f.options.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request for %s: %w", method, rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	if f.options.Cookie != "" {
		req.Header.Set("Cookie", f.options.Cookie)
	}
	for name, value := range f.options.Headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response body: %w", method, rawURL, err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// methodCarriesBody reports whether the configured request body is sent
// with the given method.
func methodCarriesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}
