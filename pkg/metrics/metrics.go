// Package metrics derives objective numeric and categorical features
// from raw Reddit payloads. All functions are pure: no I/O, no mutation
// of their input, same input always yields the same bundle.
package metrics

import (
	"strings"
	"unicode/utf8"

	"redditextract/pkg/reddit"
)

// PostMetrics is the derived feature bundle for one post
type PostMetrics struct {
	TitleLength int
	TextLength  int
	TotalLength int
	WordCount   int
	UpvoteRatio float64
	Score       int
	NumComments int
	HasURL      int
	IsSelf      bool
	IsVideo     bool
	IsStickied  bool
	Domain      string
}

// CommentMetrics is the derived feature bundle for one comment
type CommentMetrics struct {
	TextLength       int
	WordCount        int
	Score            int
	Controversiality int
	HasURL           int
	IsSubmitter      bool
	IsStickied       bool
	Depth            int
}

// ForPost derives metrics from a raw post payload. Lengths count
// characters, not bytes. A missing is_self defaults to true; missing
// numerics default to zero; the remaining booleans default to false.
func ForPost(post *reddit.PostData) PostMetrics {
	combined := post.Title + " " + post.Selftext

	return PostMetrics{
		TitleLength: utf8.RuneCountInString(post.Title),
		TextLength:  utf8.RuneCountInString(post.Selftext),
		TotalLength: utf8.RuneCountInString(combined),
		WordCount:   len(strings.Fields(combined)),
		UpvoteRatio: post.UpvoteRatio,
		Score:       post.Score,
		NumComments: post.NumComments,
		HasURL:      hasURL(combined),
		IsSelf:      post.SelfPost(),
		IsVideo:     post.IsVideo,
		IsStickied:  post.Stickied,
		Domain:      post.Domain,
	}
}

// ForComment derives metrics from a raw comment payload
func ForComment(comment *reddit.CommentData) CommentMetrics {
	text := comment.BodyText()

	return CommentMetrics{
		TextLength:       utf8.RuneCountInString(text),
		WordCount:        len(strings.Fields(text)),
		Score:            comment.Score,
		Controversiality: comment.Controversiality,
		HasURL:           hasURL(text),
		IsSubmitter:      comment.IsSubmitter,
		IsStickied:       comment.Stickied,
		Depth:            comment.Depth,
	}
}

// hasURL reports the literal substring "http" anywhere in the text.
// A deliberately cheap heuristic, not a URL-syntax check.
func hasURL(text string) int {
	if strings.Contains(text, "http") {
		return 1
	}
	return 0
}
