package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jzuercher123/AJAXSpider/internal/config"
	"github.com/jzuercher123/AJAXSpider/internal/database"
	"github.com/jzuercher123/AJAXSpider/internal/model"
	"github.com/jzuercher123/AJAXSpider/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show stored crawl runs",
		Long: `History lists the crawl runs stored in the history database.

Without arguments it prints one line per stored run, newest first.
Given a run ID it prints that run's full results as JSON.

Examples:
  # List all stored runs
  ajaxspider history

  # Show one run's results
  ajaxspider history 3f1c9b2e-5d27-4f4a-9c1e-8b7a6d5e4f3a`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// The database must already exist; history never creates one.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl history available: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showRun(cmd, db, args[0])
	}
	return listRuns(cmd, db)
}

// listRuns prints one line per stored run, newest first.
func listRuns(cmd *cobra.Command, db *database.CrawlDB) error {
	runs, err := db.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  depth=%d  urls=%d  results=%d  %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.ID,
			run.MaxDepth,
			run.URLsVisited,
			run.ResultCount,
			run.StartURL,
		)
	}
	return nil
}

// showRun prints one run's results as pretty JSON.
func showRun(cmd *cobra.Command, db *database.CrawlDB, runID string) error {
	run, err := db.GetRun(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	results, err := db.GetResults(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	writer := report.NewFullJSONWriter(cmd.OutOrStdout(), getVersion(), report.WithPrettyPrint())
	if _, err := writer.Write(report.NewReport([]*model.Run{run}, results)); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}
