// Package model defines the data structures shared across the crawler.
//
// The central type is CrawlResult, the recorded outcome of a single
// (URL, method) fetch attempt. Run aggregates the statistics of one
// complete crawl.
//
// Design decision: These types live in their own package rather than in
// the crawler package because:
//  1. The report and database packages consume them without needing
//     the crawler itself
//  2. It keeps import direction one-way (crawler -> model, report -> model)
//  3. It mirrors the separation between collection and presentation
package model
