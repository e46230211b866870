package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"redditextract/pkg/reddit"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestForPost(t *testing.T) {
	post := &reddit.PostData{
		Title:       "Go question",
		Selftext:    "see https://go.dev for docs",
		Score:       42,
		UpvoteRatio: 0.93,
		NumComments: 7,
		IsSelf:      boolPtr(false),
		IsVideo:     true,
		Stickied:    true,
		Domain:      "go.dev",
	}

	m := ForPost(post)

	assert.Equal(t, 11, m.TitleLength)
	assert.Equal(t, 27, m.TextLength)
	assert.Equal(t, 39, m.TotalLength) // title + " " + text
	assert.Equal(t, 6, m.WordCount)
	assert.Equal(t, 42, m.Score)
	assert.Equal(t, 0.93, m.UpvoteRatio)
	assert.Equal(t, 7, m.NumComments)
	assert.Equal(t, 1, m.HasURL)
	assert.False(t, m.IsSelf)
	assert.True(t, m.IsVideo)
	assert.True(t, m.IsStickied)
	assert.Equal(t, "go.dev", m.Domain)
}

func TestForPostDefaults(t *testing.T) {
	m := ForPost(&reddit.PostData{})

	assert.Equal(t, 0, m.Score)
	assert.Equal(t, float64(0), m.UpvoteRatio)
	assert.Equal(t, 0, m.NumComments)
	assert.Equal(t, 0, m.HasURL)
	// is_self defaults to true when absent, unlike the other flags
	assert.True(t, m.IsSelf)
	assert.False(t, m.IsVideo)
	assert.False(t, m.IsStickied)
	assert.Equal(t, 1, m.TotalLength) // joining space only
	assert.Equal(t, 0, m.WordCount)
}

func TestForPostCountsCharactersNotBytes(t *testing.T) {
	m := ForPost(&reddit.PostData{Title: "héllo wörld"})
	assert.Equal(t, 11, m.TitleLength)
}

func TestForPostHasURLIsSubstringHeuristic(t *testing.T) {
	// "http" inside an unrelated word still counts
	m := ForPost(&reddit.PostData{Title: "the httpclient type"})
	assert.Equal(t, 1, m.HasURL)

	m = ForPost(&reddit.PostData{Title: "no links here"})
	assert.Equal(t, 0, m.HasURL)
}

func TestForComment(t *testing.T) {
	comment := &reddit.CommentData{
		ID:               "c1",
		Body:             strPtr("totally agree, see http://example.com"),
		Score:            5,
		Controversiality: 1,
		IsSubmitter:      true,
		Stickied:         false,
		Depth:            2,
	}

	m := ForComment(comment)

	assert.Equal(t, 37, m.TextLength)
	assert.Equal(t, 4, m.WordCount)
	assert.Equal(t, 5, m.Score)
	assert.Equal(t, 1, m.Controversiality)
	assert.Equal(t, 1, m.HasURL)
	assert.True(t, m.IsSubmitter)
	assert.False(t, m.IsStickied)
	assert.Equal(t, 2, m.Depth)
}

func TestForCommentDefaults(t *testing.T) {
	m := ForComment(&reddit.CommentData{ID: "c2", Body: strPtr("")})

	assert.Equal(t, 0, m.TextLength)
	assert.Equal(t, 0, m.WordCount)
	assert.Equal(t, 0, m.Score)
	assert.Equal(t, 0, m.Controversiality)
	assert.Equal(t, 0, m.HasURL)
	assert.False(t, m.IsSubmitter)
	assert.False(t, m.IsStickied)
	assert.Equal(t, 0, m.Depth)
}

func TestMetricsDeterminism(t *testing.T) {
	post := &reddit.PostData{Title: "same", Selftext: "input", Score: 3}

	first := ForPost(post)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ForPost(post))
	}
	// The input payload is not mutated
	assert.Equal(t, "same", post.Title)
	assert.Equal(t, 3, post.Score)
}
