// Package config holds all configuration for the Reddit extraction
// pipeline: API credentials, search parameters, rate limiting, output
// and logging. Values are layered in order of precedence: defaults,
// YAML config file, environment variables, then command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the extractor
type Config struct {
	Reddit    RedditConfig    `yaml:"reddit" json:"reddit"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// RedditConfig holds Reddit application credentials
type RedditConfig struct {
	ClientID     string        `yaml:"client_id" json:"client_id"`
	ClientSecret string        `yaml:"client_secret" json:"client_secret"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig holds search parameters for one extraction run
type SearchConfig struct {
	Terms        []string `yaml:"terms" json:"terms"`
	Subreddits   string   `yaml:"subreddits" json:"subreddits"`
	Sort         string   `yaml:"sort" json:"sort"`
	PostLimit    int      `yaml:"post_limit" json:"post_limit"`
	CommentLimit int      `yaml:"comment_limit" json:"comment_limit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	PostPause         time.Duration `yaml:"post_pause" json:"post_pause"`
	SubredditPause    time.Duration `yaml:"subreddit_pause" json:"subreddit_pause"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	TimestampName bool   `yaml:"timestamp_name" json:"timestamp_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Reddit: RedditConfig{
			UserAgent: "redditextract/1.0 (data extraction tool)",
			Timeout:   30 * time.Second,
		},
		Search: SearchConfig{
			Subreddits:   "all",
			Sort:         "relevance",
			PostLimit:    25,
			CommentLimit: 20,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			PostPause:         time.Second,
			SubredditPause:    2 * time.Second,
			MaxRetries:        3,
			RetryDelay:        5 * time.Second,
		},
		Output: OutputConfig{
			Directory:     "./reddit_data",
			TimestampName: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the final configuration from defaults, an optional config
// file, environment variables and command line flags, in that order.
func Load(configFile string, flags map[string]interface{}) (*Config, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configFile); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	cfg.MergeFlags(flags)

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. An empty path means
// search the standard locations; not finding a file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".redditextract.yaml",
		".redditextract.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "redditextract", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".redditextract.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LoadFromEnv applies REDDITEXTRACT_* environment variable overrides
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("REDDITEXTRACT_CLIENT_ID"); v != "" {
		c.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDITEXTRACT_CLIENT_SECRET"); v != "" {
		c.Reddit.ClientSecret = v
	}
	if v := os.Getenv("REDDITEXTRACT_USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}
	if v := os.Getenv("REDDITEXTRACT_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("REDDITEXTRACT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDDITEXTRACT_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("REDDITEXTRACT_POST_LIMIT"); v != "" {
		c.Search.PostLimit = parseIntOrDefault(v, c.Search.PostLimit)
	}
	if v := os.Getenv("REDDITEXTRACT_COMMENT_LIMIT"); v != "" {
		c.Search.CommentLimit = parseIntOrDefault(v, c.Search.CommentLimit)
	}
}

// MergeFlags merges command line flag values into the configuration
func (c *Config) MergeFlags(flags map[string]interface{}) {
	if flags == nil {
		return
	}
	if v, ok := flags["client-id"].(string); ok && v != "" {
		c.Reddit.ClientID = v
	}
	if v, ok := flags["client-secret"].(string); ok && v != "" {
		c.Reddit.ClientSecret = v
	}
	if v, ok := flags["user-agent"].(string); ok && v != "" {
		c.Reddit.UserAgent = v
	}
	if v, ok := flags["terms"].([]string); ok && len(v) > 0 {
		c.Search.Terms = v
	}
	if v, ok := flags["subreddits"].(string); ok && v != "" {
		c.Search.Subreddits = v
	}
	if v, ok := flags["sort"].(string); ok && v != "" {
		c.Search.Sort = v
	}
	if v, ok := flags["post-limit"].(int); ok && v > 0 {
		c.Search.PostLimit = v
	}
	if v, ok := flags["comment-limit"].(int); ok && v > 0 {
		c.Search.CommentLimit = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["rate-limit"].(int); ok && v > 0 {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Reddit.ClientID == "" {
		errs = append(errs, errors.New("reddit client ID is required"))
	}
	if c.Reddit.ClientSecret == "" {
		errs = append(errs, errors.New("reddit client secret is required"))
	}
	if c.Reddit.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if len(c.Search.Terms) == 0 {
		errs = append(errs, errors.New("at least one search term is required"))
	}
	if strings.TrimSpace(c.Search.Subreddits) == "" {
		errs = append(errs, errors.New("subreddit spec is required"))
	}
	if c.Search.PostLimit <= 0 || c.Search.PostLimit > 100 {
		errs = append(errs, errors.New("post limit must be between 1 and 100"))
	}
	if c.Search.CommentLimit <= 0 {
		errs = append(errs, errors.New("comment limit must be positive"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.PostPause >= c.RateLimit.SubredditPause {
		errs = append(errs, errors.New("subreddit pause must exceed post pause"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// parseIntOrDefault parses s as an integer, falling back to def when the
// value is not a valid positive number.
func parseIntOrDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
