package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *Report {
	run := model.NewRun("http://a/", 2, 10)
	run.Duration = 1500 * time.Millisecond
	run.URLsVisited = 2
	run.ResultCount = 3

	return NewReport(
		[]*model.Run{run},
		[]model.CrawlResult{
			{
				URL:           "http://a/",
				Method:        "GET",
				StatusCode:    200,
				Headers:       map[string]string{"Content-Type": "text/html"},
				ContentLength: 512,
				ContentType:   "text/html",
			},
			{
				URL:        "http://a/",
				Method:     "POST",
				StatusCode: 405,
				Headers:    map[string]string{"Allow": "GET"},
			},
			{
				URL:        "http://a/x",
				Method:     "GET",
				StatusCode: 500,
				Headers:    map[string]string{},
			},
		},
	)
}

// TestSink tests the in-memory result sink.
func TestSink(t *testing.T) {
	t.Parallel()

	t.Run("records in order", func(t *testing.T) {
		t.Parallel()

		sink := NewSink()
		sink.Record(model.CrawlResult{URL: "http://a/", Method: "GET"})
		sink.Record(model.CrawlResult{URL: "http://a/", Method: "POST"})

		results := sink.Results()
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Method != "GET" || results[1].Method != "POST" {
			t.Errorf("expected record order preserved, got %v", results)
		}
	})

	t.Run("Results returns a copy", func(t *testing.T) {
		t.Parallel()

		sink := NewSink()
		sink.Record(model.CrawlResult{URL: "http://a/", Method: "GET"})

		results := sink.Results()
		results[0].Method = "MUTATED"

		if sink.Results()[0].Method != "GET" {
			t.Error("expected sink contents to be isolated from the returned slice")
		}
	})

	t.Run("concurrent recording is safe", func(t *testing.T) {
		t.Parallel()

		const writers = 8
		const perWriter = 50

		sink := NewSink()

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWriter; j++ {
					sink.Record(model.CrawlResult{URL: "http://a/", Method: "GET"})
				}
			}()
		}
		wg.Wait()

		if sink.Len() != writers*perWriter {
			t.Errorf("expected %d results, got %d", writers*perWriter, sink.Len())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs the result array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed []model.CrawlResult
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(parsed) != 3 {
			t.Fatalf("expected 3 results, got %d", len(parsed))
		}
		if parsed[0].URL != "http://a/" || parsed[0].StatusCode != 200 {
			t.Errorf("unexpected first result: %+v", parsed[0])
		}
		if parsed[0].Headers["Content-Type"] != "text/html" {
			t.Errorf("expected headers round-tripped, got %v", parsed[0].Headers)
		}
	})

	t.Run("empty report yields an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(NewReport(nil, nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "[]" {
			t.Errorf("expected empty array, got %q", got)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">>", "\t"))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, ">>") {
			t.Error("expected custom prefix '>>' in output")
		}
		if !strings.Contains(output, "\t") {
			t.Error("expected tab indentation in output")
		}
	})
}

// TestFullJSONWriter tests the metadata-wrapped JSON writer.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("includes version and runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "0.2.0", WithPrettyPrint())
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed struct {
			Version string              `json:"version"`
			Runs    []*model.Run        `json:"runs"`
			Results []model.CrawlResult `json:"results"`
		}
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Version != "0.2.0" {
			t.Errorf("expected version %q, got %q", "0.2.0", parsed.Version)
		}
		if len(parsed.Runs) != 1 || parsed.Runs[0].ID != report.Runs[0].ID {
			t.Errorf("expected run metadata in output, got %+v", parsed.Runs)
		}
		if len(parsed.Results) != 3 {
			t.Errorf("expected 3 results, got %d", len(parsed.Results))
		}
	})
}

// TestMarkdownWriter tests the Markdown summary writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Crawl Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "http://a/") {
			t.Error("expected output to contain the seed URL")
		}
	})

	t.Run("writes run table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Runs") {
			t.Error("expected runs section header")
		}
		if !strings.Contains(output, report.Runs[0].ID) {
			t.Error("expected run ID in output")
		}
		if !strings.Contains(output, "1.5s") {
			t.Error("expected rounded run duration in output")
		}
	})

	t.Run("writes status summary with pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Status Summary") {
			t.Error("expected status summary header")
		}
		if !strings.Contains(output, "2xx") {
			t.Error("expected status class in output")
		}
		if !strings.Contains(output, "pie") {
			t.Error("expected mermaid pie chart in output")
		}
	})

	t.Run("warns on server errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected WARNING alert for 5xx responses")
		}
	})

	t.Run("warns on failed seeds", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := NewReport([]*model.Run{nil}, nil)

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "failed to crawl") {
			t.Error("expected failed-seed warning in output")
		}
	})

	t.Run("handles empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(NewReport(nil, nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No crawls were run.") {
			t.Error("expected empty-runs message")
		}
		if !strings.Contains(output, "No responses were recorded.") {
			t.Error("expected empty-results message")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "https://github.com/jzuercher123/AJAXSpider") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		multi := NewMultiWriter(NewJSONWriter(&buf1), NewMarkdownWriter(&buf2))

		if _, err := multi.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}

		if !strings.HasPrefix(buf1.String(), "[") {
			t.Error("expected buf1 (JSON) to be an array")
		}
		if !strings.Contains(buf2.String(), "# Crawl Report") {
			t.Error("expected buf2 (markdown) to contain the header")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()
		n, err := multi.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}

// TestStatusClass tests the status class helper.
func TestStatusClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
		{100, "other"},
		{0, "other"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.code); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"ab", 5, "ab"},
		{"http://例え.example/ページ/更新情報", 12, "http://例え..."},
		{"ラベル", 3, "ラベル"},
		{"ラベルです", 4, "ラ..."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
			if !utf8.ValidString(result) {
				t.Errorf("truncateString(%q, %d) produced invalid UTF-8: %q",
					tt.input, tt.maxLen, result)
			}
		})
	}
}
