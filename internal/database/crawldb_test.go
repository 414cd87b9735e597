package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// testRun creates a finished run for testing.
func testRun() *model.Run {
	run := model.NewRun("http://a/", 2, 10)
	run.Duration = 1200 * time.Millisecond
	run.URLsVisited = 3
	run.ResultCount = 18
	return run
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "ajaxspider.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}

		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created when CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen existing database: %v", err)
		}
		defer db2.Close()
	})
}

// TestInsertAndGetRun tests run persistence round-trip.
func TestInsertAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	run := testRun()
	if err := db.InsertRun(ctx, run); err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}

	got, err := db.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}

	if got.ID != run.ID {
		t.Errorf("expected ID %q, got %q", run.ID, got.ID)
	}
	if got.StartURL != "http://a/" {
		t.Errorf("expected start URL %q, got %q", "http://a/", got.StartURL)
	}
	if got.MaxDepth != 2 || got.Concurrency != 10 {
		t.Errorf("expected config snapshot preserved, got depth=%d concurrency=%d", got.MaxDepth, got.Concurrency)
	}
	if got.Duration != 1200*time.Millisecond {
		t.Errorf("expected duration preserved, got %v", got.Duration)
	}
	if got.URLsVisited != 3 || got.ResultCount != 18 {
		t.Errorf("expected stats preserved, got visited=%d results=%d", got.URLsVisited, got.ResultCount)
	}
}

// TestGetRunMissing tests lookup of an unknown run ID.
func TestGetRunMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	got, err := db.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing run, got %+v", got)
	}
}

// TestInsertAndGetResults tests result persistence round-trip.
func TestInsertAndGetResults(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	run := testRun()
	if err := db.InsertRun(ctx, run); err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}

	results := []model.CrawlResult{
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
	}

	if err := db.InsertResults(ctx, run.ID, results); err != nil {
		t.Fatalf("failed to insert results: %v", err)
	}

	got, err := db.GetResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get results: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	if got[0].Method != "GET" || got[1].Method != "POST" {
		t.Errorf("expected insertion order preserved, got %v", got)
	}
	if got[0].Headers["Content-Type"] != "text/html" {
		t.Errorf("expected headers round-tripped, got %v", got[0].Headers)
	}
	if got[0].ContentLength != 512 {
		t.Errorf("expected content length preserved, got %d", got[0].ContentLength)
	}
}

// TestInsertResultsUpsert tests that re-inserting a triple updates it.
func TestInsertResultsUpsert(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	run := testRun()
	if err := db.InsertRun(ctx, run); err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}

	first := []model.CrawlResult{{URL: "http://a/", Method: "GET", StatusCode: 200}}
	second := []model.CrawlResult{{URL: "http://a/", Method: "GET", StatusCode: 503}}

	if err := db.InsertResults(ctx, run.ID, first); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	if err := db.InsertResults(ctx, run.ID, second); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	got, err := db.GetResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get results: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result after upsert, got %d", len(got))
	}
	if got[0].StatusCode != 503 {
		t.Errorf("expected updated status 503, got %d", got[0].StatusCode)
	}
}

// TestListRuns tests run history listing.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	older := testRun()
	older.StartedAt = time.Now().Add(-time.Hour)
	newer := testRun()

	if err := db.InsertRun(ctx, older); err != nil {
		t.Fatalf("failed to insert older run: %v", err)
	}
	if err := db.InsertRun(ctx, newer); err != nil {
		t.Fatalf("failed to insert newer run: %v", err)
	}

	runs, err := db.ListRuns(ctx)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest run first, got %q", runs[0].ID)
	}
}
