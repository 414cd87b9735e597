package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// timePrecision is how finely run durations are reported.
const timePrecision = time.Millisecond

// MarkdownWriter outputs a crawl summary in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeRuns(md, report)
	w.writeStatusSummary(md, report)
	w.writeResults(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", strconv.Itoa(len(report.Runs))},
			{"Results", strconv.Itoa(len(report.Results))},
		},
	})
	md.PlainText("")
}

// writeRuns writes one row per crawled seed.
func (w *MarkdownWriter) writeRuns(md *markdown.Markdown, report *Report) {
	md.H2("Runs")
	md.PlainText("")

	if len(report.Runs) == 0 {
		md.PlainText("No crawls were run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Runs))
	failed := 0
	for _, run := range report.Runs {
		if run == nil {
			failed++
			continue
		}
		rows = append(rows, []string{
			"`" + run.StartURL + "`",
			run.ID,
			strconv.Itoa(run.MaxDepth),
			strconv.Itoa(run.URLsVisited),
			strconv.Itoa(run.ResultCount),
			run.Duration.Round(timePrecision).String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Seed", "Run", "Depth", "URLs", "Results", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d seed(s) failed to crawl. Check the log for details.", failed)
		md.PlainText("")
	}
}

// writeStatusSummary writes the response status class distribution.
func (w *MarkdownWriter) writeStatusSummary(md *markdown.Markdown, report *Report) {
	md.H2("Status Summary")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No responses were recorded.")
		md.PlainText("")
		return
	}

	classes := make(map[string]int)
	for _, r := range report.Results {
		classes[statusClass(r.StatusCode)]++
	}

	rows := make([][]string, 0, len(classes))
	for _, class := range []string{"2xx", "3xx", "4xx", "5xx", "other"} {
		if count, ok := classes[class]; ok {
			rows = append(rows, []string{class, strconv.Itoa(count)})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, classes)

	if classes["5xx"] > 0 {
		md.Warningf("%d request(s) returned a server error.", classes["5xx"])
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, classes map[string]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Response Status Distribution"),
		piechart.WithShowData(true),
	)

	for _, class := range []string{"2xx", "3xx", "4xx", "5xx", "other"} {
		if count := classes[class]; count > 0 {
			chart.LabelAndIntValue(class, uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes the per-request result table, grouped by URL so the
// six methods of one target read together.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *Report) {
	md.H2("Results")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	results := make([]model.CrawlResult, len(report.Results))
	copy(results, report.Results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].URL < results[j].URL
	})

	rows := make([][]string, len(results))
	for i, r := range results {
		contentType := r.ContentType
		if contentType == "" {
			contentType = "-"
		}
		rows[i] = []string{
			"`" + truncateString(r.URL, 60) + "`",
			r.Method,
			strconv.Itoa(r.StatusCode),
			truncateString(contentType, 40),
			strconv.FormatInt(r.ContentLength, 10),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Method", "Status", "Content-Type", "Bytes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [AJAXSpider](https://github.com/jzuercher123/AJAXSpider)*")
}

// statusClass maps an HTTP status code to its class label.
func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "other"
	}
}

// truncateString truncates a string to maxLen runes with ellipsis.
// Slicing on rune boundaries keeps multi-byte URLs valid UTF-8.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
