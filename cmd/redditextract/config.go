package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"redditextract/pkg/config"
	"redditextract/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage redditextract configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (REDDITEXTRACT_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.redditextract.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

Sensitive values like the client secret are masked.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".redditextract.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# redditextract configuration file
#
# Every option can also be set with an environment variable prefixed
# with REDDITEXTRACT_, for example REDDITEXTRACT_CLIENT_ID.

# Reddit application credentials
reddit:
  # Client ID of a "script" type app from reddit.com/prefs/apps
  client_id: ""

  # Client secret of the same app
  # Prefer 'redditextract auth login' over keeping the secret here
  client_secret: ""

  # User agent sent with every request
  user_agent: "redditextract/1.0 (data extraction tool)"

  # Request timeout
  timeout: 30s

# Search parameters
search:
  # Search terms; usually given on the command line instead
  terms: []

  # Subreddit names joined with '+', or "all" for a global search
  subreddits: "all"

  # Sort order: relevance, hot, top, new, comments
  sort: "relevance"

  # Posts per term and subreddit (1-100)
  post_limit: 25

  # Comments collected per post
  comment_limit: 20

# Rate limiting
rate_limit:
  # Sustained requests per minute
  requests_per_minute: 60

  # Pause after processing each post
  post_pause: 1s

  # Pause after finishing each term/subreddit pair
  subreddit_pause: 2s

  # Retry attempts for transient request failures
  max_retries: 3

  # Base delay between retries
  retry_delay: 5s

# Output
output:
  # Directory the CSV files are written to
  directory: "./reddit_data"

  # Append a run timestamp to the file names
  timestamp_name: true

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path; empty logs to the terminal
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store credentials with 'redditextract auth login'")
	fmt.Println("2. Run 'redditextract config show' to check the configuration")
	fmt.Println("3. Start extracting with 'redditextract extract <term>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.Reddit.ClientSecret != "" {
		if len(displayCfg.Reddit.ClientSecret) > 8 {
			displayCfg.Reddit.ClientSecret = displayCfg.Reddit.ClientSecret[:4] + "..." + displayCfg.Reddit.ClientSecret[len(displayCfg.Reddit.ClientSecret)-4:]
		} else {
			displayCfg.Reddit.ClientSecret = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (REDDITEXTRACT_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in standard locations)")
	}
	fmt.Println("4. Default values")
}
