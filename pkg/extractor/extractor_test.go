package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redditextract/pkg/config"
	errs "redditextract/pkg/errors"
	"redditextract/pkg/logger"
	"redditextract/pkg/reddit"
)

func strPtr(s string) *string { return &s }

// mockClient is a scripted RedditAPI implementation
type mockClient struct {
	authErr      error
	authCalls    int
	searchCalls  []Pair
	fetchCalls   []string
	searchByPair map[Pair][]reddit.PostData
	searchErrs   map[Pair]error
	commentsByID map[string][]reddit.CommentData
	commentErrs  map[string]error
}

func newMockClient() *mockClient {
	return &mockClient{
		searchByPair: make(map[Pair][]reddit.PostData),
		searchErrs:   make(map[Pair]error),
		commentsByID: make(map[string][]reddit.CommentData),
		commentErrs:  make(map[string]error),
	}
}

func (m *mockClient) Authenticate(ctx context.Context) error {
	m.authCalls++
	return m.authErr
}

func (m *mockClient) Search(ctx context.Context, query, subreddit, sort string, limit int) ([]reddit.PostData, error) {
	pair := Pair{Term: query, Subreddit: subreddit}
	m.searchCalls = append(m.searchCalls, pair)
	if err := m.searchErrs[pair]; err != nil {
		return nil, err
	}
	return m.searchByPair[pair], nil
}

func (m *mockClient) FetchComments(ctx context.Context, postID string, limit int) ([]reddit.CommentData, error) {
	m.fetchCalls = append(m.fetchCalls, postID)
	if err := m.commentErrs[postID]; err != nil {
		return nil, err
	}
	return m.commentsByID[postID], nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.RateLimit.PostPause = time.Microsecond
	cfg.RateLimit.SubredditPause = 2 * time.Microsecond
	return cfg
}

func newTestExtractor(client RedditAPI) *Extractor {
	e := New(client, testConfig(), logger.NewTestLogger())
	e.pause = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func post(id, title string, numComments int) reddit.PostData {
	return reddit.PostData{
		ID:          id,
		Title:       title,
		NumComments: numComments,
		Permalink:   "/r/test/comments/" + id,
		Subreddit:   "test",
		Author:      "someone",
		CreatedUTC:  1700000000,
	}
}

func comment(id, body string) reddit.CommentData {
	return reddit.CommentData{
		ID:        id,
		Body:      strPtr(body),
		Author:    "commenter",
		Permalink: "/r/test/comments/x/" + id,
	}
}

func TestRunAuthFailureIsFatal(t *testing.T) {
	client := newMockClient()
	client.authErr = errs.NewWithCode(errs.ErrorTypeAuth, "bad credentials", 401, "")

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.Error(t, err)
	assert.Empty(t, result.Posts)
	assert.Empty(t, result.Comments)
	// No search or comment calls happen after a failed token exchange
	assert.Empty(t, client.searchCalls)
	assert.Empty(t, client.fetchCalls)
}

func TestRunSinglePostNoComments(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("p1", "a post", 0),
	}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Empty(t, result.Comments)
	// num_comments == 0 means no comment fetch is issued
	assert.Empty(t, client.fetchCalls)
	assert.Equal(t, "p1", result.Posts[0].PostID)
	assert.Equal(t, "foo", result.Posts[0].SearchTerm)
	assert.Equal(t, "https://www.reddit.com/r/test/comments/p1", result.Posts[0].Permalink)
}

func TestRunFirstTermWinsOnDuplicate(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("shared", "found by foo", 0),
	}
	client.searchByPair[Pair{Term: "baz", Subreddit: "bar"}] = []reddit.PostData{
		post("shared", "found by baz", 0),
	}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo", "baz"}, "bar")

	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "foo", result.Posts[0].SearchTerm)
	assert.Equal(t, 1, result.DuplicatesDropped[Pair{Term: "baz", Subreddit: "bar"}])
	assert.Equal(t, 1, result.TotalDuplicatesDropped())
}

// A post dropped as a duplicate does not have its comments fetched, so
// the comment output never references a post id that is missing from
// the post output.
func TestRunDuplicateSkipsCommentFetch(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("shared", "original", 2),
	}
	client.searchByPair[Pair{Term: "baz", Subreddit: "bar"}] = []reddit.PostData{
		post("shared", "duplicate", 2),
	}
	client.commentsByID["shared"] = []reddit.CommentData{comment("c1", "hello")}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo", "baz"}, "bar")

	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, client.fetchCalls, "comments fetched once, for the first occurrence only")
	require.Len(t, result.Comments, 1)
	assert.Equal(t, "shared", result.Comments[0].PostID)
}

func TestRunCommentIDsAreMonotonic(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("p1", "first", 2),
		post("p2", "second", 3),
	}
	client.commentsByID["p1"] = []reddit.CommentData{comment("a", "one"), comment("b", "two")}
	client.commentsByID["p2"] = []reddit.CommentData{comment("c", "three")}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.NoError(t, err)
	require.Len(t, result.Comments, 3)
	for i, c := range result.Comments {
		assert.Equal(t, i, c.CommentID)
	}
}

func TestRunSearchFailureIsSoft(t *testing.T) {
	client := newMockClient()
	client.searchErrs[Pair{Term: "foo", Subreddit: "bad"}] = errs.FromStatusCode(500, "boom")
	client.searchByPair[Pair{Term: "foo", Subreddit: "good"}] = []reddit.PostData{
		post("p1", "still extracted", 0),
	}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bad+good")

	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "search", result.Failures[0].Stage)
	assert.Equal(t, Pair{Term: "foo", Subreddit: "bad"}, result.Failures[0].Pair)
}

func TestRunCommentFailureIsSoft(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("p1", "first", 5),
		post("p2", "second", 1),
	}
	client.commentErrs["p1"] = errs.FromStatusCode(502, "bad gateway")
	client.commentsByID["p2"] = []reddit.CommentData{comment("c", "fine")}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.NoError(t, err)
	assert.Len(t, result.Posts, 2)
	require.Len(t, result.Comments, 1)
	assert.Equal(t, "p2", result.Comments[0].PostID)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "comments", result.Failures[0].Stage)
	assert.Equal(t, "p1", result.Failures[0].PostID)
}

func TestRunSkipsPostsWithoutID(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		{Title: "no id"},
		post("p1", "has id", 0),
	}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "p1", result.Posts[0].PostID)
}

func TestRunDeletedAuthorSentinel(t *testing.T) {
	raw := post("p1", "orphaned", 0)
	raw.Author = ""
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{raw}

	result, err := newTestExtractor(client).Run(context.Background(), []string{"foo"}, "bar")

	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "[deleted]", result.Posts[0].Author)
}

func TestRunTraversalOrder(t *testing.T) {
	client := newMockClient()

	result, err := newTestExtractor(client).Run(context.Background(), []string{"t1", "t2"}, "s1+s2")

	require.NoError(t, err)
	assert.Empty(t, result.Posts)
	// Term is the outer loop, subreddit the inner loop
	assert.Equal(t, []Pair{
		{Term: "t1", Subreddit: "s1"},
		{Term: "t1", Subreddit: "s2"},
		{Term: "t2", Subreddit: "s1"},
		{Term: "t2", Subreddit: "s2"},
	}, client.searchCalls)
}

func TestRunContextCancellation(t *testing.T) {
	client := newMockClient()
	client.searchByPair[Pair{Term: "foo", Subreddit: "bar"}] = []reddit.PostData{
		post("p1", "first", 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := New(client, testConfig(), logger.NewTestLogger())
	e.pause = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := e.Run(ctx, []string{"foo"}, "bar")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSubreddits(t *testing.T) {
	tests := []struct {
		spec     string
		expected []string
	}{
		{"all", []string{"all"}},
		{"golang+programming", []string{"golang", "programming"}},
		{"a+ +b", []string{"a", "b"}},
		{"", []string{}},
		{" golang ", []string{"golang"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseSubreddits(tt.spec), "spec %q", tt.spec)
	}
}
