package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 25, cfg.Search.PostLimit)
	assert.Equal(t, 20, cfg.Search.CommentLimit)
	assert.Equal(t, "relevance", cfg.Search.Sort)
	assert.Equal(t, "all", cfg.Search.Subreddits)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, time.Second, cfg.RateLimit.PostPause)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.SubredditPause)
	assert.Greater(t, cfg.RateLimit.SubredditPause, cfg.RateLimit.PostPause)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
reddit:
  client_id: file-id
  client_secret: file-secret
search:
  terms: ["golang", "rustlang"]
  subreddits: golang+programming
  post_limit: 50
rate_limit:
  requests_per_minute: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-id", cfg.Reddit.ClientID)
	assert.Equal(t, []string{"golang", "rustlang"}, cfg.Search.Terms)
	assert.Equal(t, "golang+programming", cfg.Search.Subreddits)
	assert.Equal(t, 50, cfg.Search.PostLimit)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	// Values not present in the file keep defaults
	assert.Equal(t, 20, cfg.Search.CommentLimit)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REDDITEXTRACT_CLIENT_ID", "env-id")
	t.Setenv("REDDITEXTRACT_CLIENT_SECRET", "env-secret")
	t.Setenv("REDDITEXTRACT_POST_LIMIT", "10")
	t.Setenv("REDDITEXTRACT_COMMENT_LIMIT", "not-a-number")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "env-id", cfg.Reddit.ClientID)
	assert.Equal(t, "env-secret", cfg.Reddit.ClientSecret)
	assert.Equal(t, 10, cfg.Search.PostLimit)
	// Invalid integer falls back to the default
	assert.Equal(t, 20, cfg.Search.CommentLimit)
}

func TestMergeFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeFlags(map[string]interface{}{
		"client-id":     "flag-id",
		"terms":         []string{"kubernetes"},
		"subreddits":    "devops",
		"post-limit":    5,
		"comment-limit": 0, // non-positive values are ignored
		"output":        "/tmp/out",
	})

	assert.Equal(t, "flag-id", cfg.Reddit.ClientID)
	assert.Equal(t, []string{"kubernetes"}, cfg.Search.Terms)
	assert.Equal(t, "devops", cfg.Search.Subreddits)
	assert.Equal(t, 5, cfg.Search.PostLimit)
	assert.Equal(t, 20, cfg.Search.CommentLimit)
	assert.Equal(t, "/tmp/out", cfg.Output.Directory)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Reddit.ClientID = "id"
		cfg.Reddit.ClientSecret = "secret"
		cfg.Search.Terms = []string{"term"}
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Reddit.ClientID = ""
		cfg.Reddit.ClientSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client ID")
	})

	t.Run("no search terms", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Terms = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("post limit out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Search.PostLimit = 500
		assert.Error(t, cfg.Validate())
	})

	t.Run("subreddit pause must exceed post pause", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit.SubredditPause = cfg.RateLimit.PostPause
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "loud"
		assert.Error(t, cfg.Validate())
	})
}

func TestSaveAndReload(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reddit.ClientID = "saved-id"
	cfg.Search.Terms = []string{"a", "b"}

	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, "saved-id", reloaded.Reddit.ClientID)
	assert.Equal(t, []string{"a", "b"}, reloaded.Search.Terms)
}
