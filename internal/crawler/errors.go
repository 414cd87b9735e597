package crawler

import "errors"

// Crawl engine errors.
var (
	// ErrInvalidStartURL is returned by Spider.Run when the seed URL is
	// rejected by the frontier (malformed or disallowed scheme). Unlike
	// discovered links, which are dropped silently, a bad seed means the
	// run can do no work at all and is surfaced to the caller.
	ErrInvalidStartURL = errors.New("start URL is not crawlable")
)
