// Package models defines the output records of an extraction run.
package models

import "time"

// AuthorDeleted is the author sentinel for removed accounts
const AuthorDeleted = "[deleted]"

// Post is one extracted post record. PostID is unique across the whole
// run; the first occurrence wins and later duplicates are dropped.
// SearchTerm records which query produced the record.
type Post struct {
	PostID      string    `json:"post_id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	CreatedUTC  time.Time `json:"created_utc"`
	NumComments int       `json:"num_comments"`
	Permalink   string    `json:"permalink"`
	Subreddit   string    `json:"subreddit"`
	Author      string    `json:"author"`
	SearchTerm  string    `json:"search_term"`

	// Derived metrics
	TitleLength int    `json:"title_length"`
	TextLength  int    `json:"text_length"`
	TotalLength int    `json:"total_length"`
	WordCount   int    `json:"word_count"`
	HasURL      int    `json:"has_url"`
	IsSelf      bool   `json:"is_self"`
	IsVideo     bool   `json:"is_video"`
	IsStickied  bool   `json:"is_stickied"`
	Domain      string `json:"domain"`
}

// Comment is one extracted comment record. CommentID is a run-scoped
// sequence number assigned in discovery order, not taken from the API.
// Comments are only collected for posts that made it into the output,
// so PostID always resolves to a Post record of the same run.
type Comment struct {
	CommentID   int       `json:"comment_id"`
	PostID      string    `json:"post_id"`
	Text        string    `json:"text"`
	Score       int       `json:"score"`
	CreatedUTC  time.Time `json:"created_utc"`
	Author      string    `json:"author"`
	IsSubmitter bool      `json:"is_submitter"`
	Permalink   string    `json:"permalink"`

	// Derived metrics
	TextLength       int  `json:"text_length"`
	WordCount        int  `json:"word_count"`
	HasURL           int  `json:"has_url"`
	IsStickied       bool `json:"is_stickied"`
	Depth            int  `json:"depth"`
	Controversiality int  `json:"controversiality"`
}
