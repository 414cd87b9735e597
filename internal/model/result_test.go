package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestCrawlResultJSON tests the export field names of CrawlResult.
func TestCrawlResultJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals required export fields", func(t *testing.T) {
		t.Parallel()

		result := CrawlResult{
			URL:        "http://example.com/",
			Method:     "GET",
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "text/html"},
		}

		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		for _, field := range []string{`"url"`, `"method"`, `"status_code"`, `"headers"`} {
			if !strings.Contains(string(data), field) {
				t.Errorf("expected JSON to contain %s, got %s", field, data)
			}
		}
	})

	t.Run("omits optional fields when zero", func(t *testing.T) {
		t.Parallel()

		result := CrawlResult{
			URL:        "http://example.com/",
			Method:     "HEAD",
			StatusCode: 200,
			Headers:    map[string]string{},
		}

		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		if strings.Contains(string(data), "content_length") {
			t.Errorf("expected content_length to be omitted, got %s", data)
		}
	})
}

// TestCrawlResultKey tests result identity used for set comparisons.
func TestCrawlResultKey(t *testing.T) {
	t.Parallel()

	a := CrawlResult{URL: "http://a/", Method: "GET"}
	b := CrawlResult{URL: "http://a/", Method: "POST"}

	if a.Key() == b.Key() {
		t.Errorf("expected different keys for different methods, got %q", a.Key())
	}
	if a.Key() != "GET http://a/" {
		t.Errorf("unexpected key format: %q", a.Key())
	}
}

// TestNewRun tests run creation defaults.
func TestNewRun(t *testing.T) {
	t.Parallel()

	run := NewRun("http://example.com/", 2, 10)

	if run.ID == "" {
		t.Error("expected non-empty run ID")
	}
	if run.StartURL != "http://example.com/" {
		t.Errorf("unexpected start URL: %q", run.StartURL)
	}
	if run.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}

	other := NewRun("http://example.com/", 2, 10)
	if run.ID == other.ID {
		t.Error("expected unique run IDs")
	}
}
