// Package log provides structured logging for AJAXSpider.
//
// Two slog.Handler implementations are composed into the spider's logger:
//
//   - TeeHandler duplicates every record to the console and the log file,
//     so both destinations receive the same timestamped lines.
//   - SecureHandler masks credential-bearing attributes (cookies,
//     authorization headers, tokens) before they reach any destination.
//     Crawl logs routinely include response headers, which can carry
//     session material from the crawled sites.
//
// Use NewSpiderLogger to build the composed logger.
package log
