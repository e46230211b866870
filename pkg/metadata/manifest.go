// Package metadata records what one extraction run did: the query
// matrix, the collected counts and the failure report, saved as a JSON
// manifest next to the CSV datasets.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"redditextract/pkg/extractor"
)

// FailureEntry is one soft failure in the manifest
type FailureEntry struct {
	Term      string `json:"term"`
	Subreddit string `json:"subreddit"`
	Stage     string `json:"stage"`
	PostID    string `json:"post_id,omitempty"`
	Error     string `json:"error"`
}

// RunManifest describes one extraction run
type RunManifest struct {
	// Query matrix
	Terms        []string `json:"terms"`
	Subreddits   []string `json:"subreddits"`
	Sort         string   `json:"sort"`
	PostLimit    int      `json:"post_limit"`
	CommentLimit int      `json:"comment_limit"`

	// Timestamps
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Outcome
	Posts             int            `json:"posts"`
	Comments          int            `json:"comments"`
	DuplicatesDropped int            `json:"duplicates_dropped"`
	Failures          []FailureEntry `json:"failures,omitempty"`

	// Output
	PostsFile    string `json:"posts_file,omitempty"`
	CommentsFile string `json:"comments_file,omitempty"`
}

// FromResult builds a manifest from a finished run
func FromResult(result *extractor.Result, startedAt time.Time) *RunManifest {
	m := &RunManifest{
		StartedAt:         startedAt,
		FinishedAt:        time.Now(),
		Posts:             len(result.Posts),
		Comments:          len(result.Comments),
		DuplicatesDropped: result.TotalDuplicatesDropped(),
	}

	for _, f := range result.Failures {
		entry := FailureEntry{
			Term:      f.Pair.Term,
			Subreddit: f.Pair.Subreddit,
			Stage:     f.Stage,
			PostID:    f.PostID,
		}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}
		m.Failures = append(m.Failures, entry)
	}

	return m
}

// Save writes the manifest as indented JSON
func (m *RunManifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest from a JSON file
func Load(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &m, nil
}
