package crawler

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parser extracts link targets from HTML content.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles the malformed HTML common on the web
//  2. It never fails on bad markup; the tokenizer recovers and moves on
//  3. It is far more maintainable than attribute-matching regexes
type Parser struct {
	// baseURL is the URL of the page being parsed, used to resolve
	// relative references.
	baseURL *url.URL
}

// NewParser creates a parser that resolves links against the given base
// URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// ExtractLinks parses HTML and returns the deduplicated set of absolute,
// crawlable URLs it references, in document order. It scans the elements
// that reference other resources: a and link (href), script and img (src).
//
// The contract is total: malformed markup never produces an error, only
// fewer links; empty input yields an empty result. The parser does not
// consult the frontier's visited set, it is a pure function of its inputs.
func (p *Parser) ExtractLinks(content io.Reader, contentType string) []string {
	// Decode non-UTF-8 documents before tokenizing. On unknown charsets
	// NewReader falls back to the raw bytes.
	decoded, err := charset.NewReader(content, contentType)
	if err != nil {
		decoded = content
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		// html.Parse only fails on reader errors, not bad markup.
		// A truncated body yields no links rather than a crawl failure.
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if ref := linkAttr(n); ref != "" {
				if resolved := p.resolveURL(ref); resolved != "" && IsCrawlable(resolved) && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// linkAttr returns the referencing attribute value for elements the
// crawler follows: href on a/link, src on script/img.
func linkAttr(n *html.Node) string {
	switch n.Data {
	case "a", "link":
		return getAttr(n, "href")
	case "script", "img":
		return getAttr(n, "src")
	default:
		return ""
	}
}

// resolveURL resolves a reference against the base URL and strips the
// fragment, returning the empty string for references that cannot become
// fetchable URLs.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)

	// The fragment addresses a position within the page, not a
	// different page.
	resolved.Fragment = ""

	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// ExtractLinks is a convenience wrapper parsing markup in one call.
// An unparsable base URL yields no links.
func ExtractLinks(markup []byte, baseURL, contentType string) []string {
	p, err := NewParser(baseURL)
	if err != nil {
		return nil
	}
	return p.ExtractLinks(bytes.NewReader(markup), contentType)
}
