package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"redditextract/pkg/auth"
	"redditextract/pkg/config"
	"redditextract/pkg/extractor"
	"redditextract/pkg/logger"
	"redditextract/pkg/metadata"
	"redditextract/pkg/reddit"
	"redditextract/pkg/storage"
	"redditextract/pkg/ui"
)

var (
	// Extract command flags
	subredditSpec string
	sortOrder     string
	postLimit     int
	commentLimit  int
	outputDir     string
	rateLimit     int
	accountName   string
	clientID      string
	clientSecret  string
	noTimestamp   bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <term> [term...]",
	Short: "Search Reddit and write posts and comments to CSV files",
	Long: `Search Reddit for one or more terms and write the results as CSV datasets.

Each term is searched in each subreddit of the --subreddits spec (names
joined with '+', or "all" for a global search). Posts are deduplicated
across the whole run; for every post with comments, a sample of its
top-level comments is collected as well.

Credentials are resolved in order from:
  - A stored account ('redditextract auth login' to store one)
  - Environment variables (REDDITEXTRACT_CLIENT_ID and REDDITEXTRACT_CLIENT_SECRET)
  - Configuration file or --client-id/--client-secret flags

Two files are written to the output directory: one for posts and one for
comments, both with cleaned-text columns ready for analysis.`,
	Example: `  # Global search for one term
  redditextract extract "battery recycling"

  # Several terms across specific subreddits
  redditextract extract solar wind --subreddits energy+science --post-limit 50

  # Use a stored account and a custom output directory
  redditextract extract golang --account research --output ./datasets`,
	Args: cobra.MinimumNArgs(1),
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&subredditSpec, "subreddits", "s", "", `subreddits joined with '+', or "all" (default "all")`)
	extractCmd.Flags().StringVar(&sortOrder, "sort", "", `sort order: relevance, hot, top, new, comments (default "relevance")`)
	extractCmd.Flags().IntVar(&postLimit, "post-limit", 0, "maximum posts per term and subreddit, 1-100 (default 25)")
	extractCmd.Flags().IntVar(&commentLimit, "comment-limit", 0, "maximum comments per post (default 20)")
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for CSV files (default ./reddit_data)")
	extractCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute (default 60)")
	extractCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	extractCmd.Flags().StringVar(&clientID, "client-id", "", "Reddit application client ID")
	extractCmd.Flags().StringVar(&clientSecret, "client-secret", "", "Reddit application client secret")
	extractCmd.Flags().BoolVar(&noTimestamp, "no-timestamp", false, "write fixed filenames without a timestamp suffix")
}

func runExtract(cmd *cobra.Command, args []string) {
	terms := make([]string, 0, len(args))
	for _, arg := range args {
		if t := strings.TrimSpace(arg); t != "" {
			terms = append(terms, t)
		}
	}

	if verbose {
		logLevel = "debug"
	}

	// Build flags map from command line
	flags := map[string]interface{}{
		"terms":         terms,
		"subreddits":    subredditSpec,
		"sort":          sortOrder,
		"post-limit":    postLimit,
		"comment-limit": commentLimit,
		"output":        outputDir,
		"rate-limit":    rateLimit,
		"client-id":     clientID,
		"client-secret": clientSecret,
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	resolveCredentials(cfg)

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
			fmt.Println("\nTo store credentials securely, run:")
			fmt.Println("  redditextract auth login")
			fmt.Println("\nOr set environment variables:")
			fmt.Println("  export REDDITEXTRACT_CLIENT_ID=your_client_id")
			fmt.Println("  export REDDITEXTRACT_CLIENT_SECRET=your_client_secret")
		}
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.InfoWithFields("starting extraction", map[string]interface{}{
		"version":    version,
		"terms":      terms,
		"subreddits": cfg.Search.Subreddits,
	})

	ui.PrintInfo("Search terms", strings.Join(terms, ", "))
	ui.PrintInfo("Subreddits", cfg.Search.Subreddits)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := reddit.NewClient(cfg, log)
	ext := extractor.New(client, cfg, log)

	startedAt := time.Now()
	result, err := ext.Run(ctx, cfg.Search.Terms, cfg.Search.Subreddits)
	if err != nil {
		log.ErrorWithFields("extraction failed", map[string]interface{}{"error": err.Error()})
		ui.PrintError("EXTRACTION FAILED", err.Error())
		os.Exit(1)
	}

	store, err := storage.NewManager(cfg.Output.Directory, log)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	suffix := ""
	if cfg.Output.TimestampName && !noTimestamp {
		suffix = time.Now().Format("20060102_150405")
	}

	postsFile, err := store.WritePosts(result.Posts, suffix)
	if err != nil && err != storage.ErrNoRecords {
		ui.PrintError("Failed to write posts file", err.Error())
		os.Exit(1)
	}

	commentsFile, err := store.WriteComments(result.Comments, suffix)
	if err != nil && err != storage.ErrNoRecords {
		ui.PrintError("Failed to write comments file", err.Error())
		os.Exit(1)
	}

	manifest := metadata.FromResult(result, startedAt)
	manifest.Terms = cfg.Search.Terms
	manifest.Subreddits = extractor.ParseSubreddits(cfg.Search.Subreddits)
	manifest.Sort = cfg.Search.Sort
	manifest.PostLimit = cfg.Search.PostLimit
	manifest.CommentLimit = cfg.Search.CommentLimit
	manifest.PostsFile = postsFile
	manifest.CommentsFile = commentsFile

	manifestName := "run_manifest.json"
	if suffix != "" {
		manifestName = fmt.Sprintf("run_manifest_%s.json", suffix)
	}
	if err := manifest.Save(filepath.Join(cfg.Output.Directory, manifestName)); err != nil {
		ui.PrintWarning("Failed to write run manifest", err.Error())
	}

	failures := make([]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, f.String())
	}

	ui.PrintRunSummary(ui.RunSummary{
		Terms:             len(cfg.Search.Terms),
		Subreddits:        len(extractor.ParseSubreddits(cfg.Search.Subreddits)),
		Posts:             len(result.Posts),
		Comments:          len(result.Comments),
		DuplicatesDropped: result.TotalDuplicatesDropped(),
		Failures:          failures,
		PostsFile:         postsFile,
		CommentsFile:      commentsFile,
	})

	log.InfoWithFields("extraction completed", map[string]interface{}{
		"posts":    len(result.Posts),
		"comments": len(result.Comments),
		"failures": len(result.Failures),
	})
	ui.PrintSuccess("Extraction completed")
}

// resolveCredentials fills in client credentials from the credential
// manager when the config does not already carry them.
func resolveCredentials(cfg *config.Config) {
	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Stored accounts", "Use 'redditextract auth status' to list them")
			os.Exit(1)
		}
	} else if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		account, err = manager.RetrieveDefault()
		if err != nil {
			return
		}
	}

	if account != nil {
		cfg.Reddit.ClientID = account.ClientID
		cfg.Reddit.ClientSecret = account.ClientSecret
		if account.UserAgent != "" {
			cfg.Reddit.UserAgent = account.UserAgent
		}
		ui.PrintInfo("Using account", account.Name)
	}
}
