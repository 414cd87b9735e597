// Package main provides the entry point for the AJAXSpider CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for AJAXSpider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ajaxspider",
		Short: "Bounded-depth web crawler that probes every HTTP method",
		Long: `AJAXSpider crawls a site breadth-first from one or more seed URLs.
Every discovered page is probed with GET, POST, PUT, DELETE, HEAD, and
OPTIONS, and the responses are recorded to a JSON file. Link following
is bounded by depth and deduplicated, so every crawl terminates.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
