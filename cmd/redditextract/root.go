package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"redditextract/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redditextract",
	Short: "Extract Reddit search results and comments into CSV datasets",
	Long: `redditextract turns Reddit's search API into analysis-ready CSV files.

Given a set of search terms and subreddits, it authenticates against the
Reddit API, collects the matching posts and a sample of their comments,
derives text metrics for each record, and writes one posts file and one
comments file.

Features:
  - Secure credential storage using system keychain
  - Global or per-subreddit search with configurable sort and limits
  - Smart rate limiting to stay within API restrictions
  - Automatic retry with exponential backoff
  - Deduplicated, spreadsheet-friendly CSV output`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintBanner()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .redditextract.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show all log output")

	// Version template
	rootCmd.SetVersionTemplate(`redditextract {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
