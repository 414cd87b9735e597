package crawler

import (
	"net/url"
	"strings"
)

// IsCrawlable reports whether a URL string is acceptable for crawling:
// it parses, and its scheme is http or https (case-insensitive).
// Malformed URLs return false rather than an error; the frontier drops
// them silently.
func IsCrawlable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// NormalizeURL normalizes a URL for visited-set deduplication.
//
// Design decision: We normalize because the same page can have several
// URL spellings:
//  1. Fragments (#anchor) do not change the fetched content
//  2. Scheme and host are case-insensitive
//  3. An empty path and "/" address the same resource
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
