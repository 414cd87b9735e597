// Package report collects crawl results and writes them out.
//
// This package contains the in-memory result sink the spider records
// into, plus writers for different output formats:
//   - JSONWriter: the result array for tool integration
//   - MarkdownWriter: a human-readable crawl summary
//
// Design decision: We separate report writing from the result data
// structures (which are in the model package) to follow the single
// responsibility principle. This allows adding new output formats
// without modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
