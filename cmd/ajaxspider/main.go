// Package main provides the entry point for the AJAXSpider CLI.
//
// AJAXSpider is a bounded-depth web crawler. For every discovered page
// it probes six HTTP methods and records the responses to a JSON file.
//
// Usage:
//
//	ajaxspider crawl <url>
//	ajaxspider crawl --depth 3 --concurrency 20 <url> [url...]
//
// See --help for all available options.
package main

// main is the entry point for AJAXSpider.
func main() {
	Execute()
}
