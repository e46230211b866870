package extractor

import (
	"fmt"

	"redditextract/pkg/models"
)

// Pair identifies one term/subreddit combination of the search matrix
type Pair struct {
	Term      string
	Subreddit string
}

// Failure records one soft failure during a run. Stage is "search" or
// "comments"; PostID is set only for comment failures.
type Failure struct {
	Pair   Pair
	Stage  string
	PostID string
	Err    error
}

func (f Failure) String() string {
	if f.PostID != "" {
		return fmt.Sprintf("%s in r/%s (%q): post %s: %v", f.Stage, f.Pair.Subreddit, f.Pair.Term, f.PostID, f.Err)
	}
	return fmt.Sprintf("%s in r/%s (%q): %v", f.Stage, f.Pair.Subreddit, f.Pair.Term, f.Err)
}

// Result is the aggregate output of one extraction run. It is owned by
// the Run call that produced it; posts are deduplicated by post id with
// first-writer-wins semantics and comment ids are assigned sequentially
// in discovery order.
type Result struct {
	Posts    []models.Post
	Comments []models.Comment

	// DuplicatesDropped counts dropped duplicate posts per pair
	DuplicatesDropped map[Pair]int

	// Failures lists the soft failures encountered across the matrix
	Failures []Failure

	seen          map[string]struct{}
	nextCommentID int
}

// NewResult creates an empty run aggregate
func NewResult() *Result {
	return &Result{
		DuplicatesDropped: make(map[Pair]int),
		seen:              make(map[string]struct{}),
	}
}

// HasPost reports whether a post id was already collected this run
func (r *Result) HasPost(id string) bool {
	_, ok := r.seen[id]
	return ok
}

// AddPost appends a post record and marks its id as seen
func (r *Result) AddPost(post models.Post) {
	r.seen[post.PostID] = struct{}{}
	r.Posts = append(r.Posts, post)
}

// AddComment appends a comment record, assigning it the next sequence
// id. Ids advance only for records actually added, never for filtered
// payloads.
func (r *Result) AddComment(comment models.Comment) {
	comment.CommentID = r.nextCommentID
	r.nextCommentID++
	r.Comments = append(r.Comments, comment)
}

// RecordDuplicate counts a dropped duplicate for the given pair
func (r *Result) RecordDuplicate(pair Pair) {
	r.DuplicatesDropped[pair]++
}

// RecordFailure adds a soft failure to the run report
func (r *Result) RecordFailure(pair Pair, stage, postID string, err error) {
	r.Failures = append(r.Failures, Failure{Pair: pair, Stage: stage, PostID: postID, Err: err})
}

// TotalDuplicatesDropped sums duplicate drops across all pairs
func (r *Result) TotalDuplicatesDropped() int {
	total := 0
	for _, n := range r.DuplicatesDropped {
		total += n
	}
	return total
}
