package extractor

import (
	"context"

	"redditextract/pkg/reddit"
)

// RedditAPI defines the Reddit operations the extractor depends on
type RedditAPI interface {
	Authenticate(ctx context.Context) error
	Search(ctx context.Context, query, subreddit, sort string, limit int) ([]reddit.PostData, error)
	FetchComments(ctx context.Context, postID string, limit int) ([]reddit.CommentData, error)
}
