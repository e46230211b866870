// Package extractor orchestrates the Reddit extraction pipeline: the
// term by subreddit search fan-out, post deduplication, comment
// retrieval and record assembly.
package extractor

import (
	"context"
	"strings"
	"time"

	"redditextract/pkg/config"
	"redditextract/pkg/logger"
	"redditextract/pkg/metrics"
	"redditextract/pkg/models"
	"redditextract/pkg/reddit"
	"redditextract/pkg/retry"
)

// permalinkBase turns the relative permalinks the API returns into
// absolute URLs.
const permalinkBase = "https://www.reddit.com"

// Extractor drives one extraction run over a set of search terms and
// subreddits. The run is sequential: term outer loop, subreddit inner
// loop, so the output order and duplicate tie-breaks are deterministic.
type Extractor struct {
	client RedditAPI
	cfg    *config.Config
	logger logger.Logger

	// pause is swappable in tests to avoid real sleeps
	pause func(ctx context.Context, d time.Duration) error
}

// New creates an Extractor
func New(client RedditAPI, cfg *config.Config, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{
		client: client,
		cfg:    cfg,
		logger: log,
		pause:  retry.Wait,
	}
}

// Run executes the extraction: authenticate, fan out over every
// term/subreddit pair, deduplicate posts, fetch comments for posts that
// report any, and return the accumulated records. Authentication failure
// is the one fatal condition; search and comment failures are soft and
// recorded on the Result.
func (e *Extractor) Run(ctx context.Context, terms []string, subredditSpec string) (*Result, error) {
	result := NewResult()

	if err := e.client.Authenticate(ctx); err != nil {
		e.logger.WithError(err).Error("authentication failed, aborting run")
		return result, err
	}

	subreddits := ParseSubreddits(subredditSpec)

	e.logger.InfoWithFields("starting extraction", map[string]interface{}{
		"terms":      terms,
		"subreddits": subreddits,
	})

	for _, term := range terms {
		for _, subreddit := range subreddits {
			if err := e.extractPair(ctx, term, subreddit, result); err != nil {
				// Only context cancellation propagates out of a pair
				return result, err
			}

			if err := e.pause(ctx, e.cfg.RateLimit.SubredditPause); err != nil {
				return result, err
			}
		}
	}

	e.logger.InfoWithFields("extraction finished", map[string]interface{}{
		"posts":              len(result.Posts),
		"comments":           len(result.Comments),
		"duplicates_dropped": result.TotalDuplicatesDropped(),
		"soft_failures":      len(result.Failures),
	})

	return result, nil
}

// extractPair processes one term/subreddit combination
func (e *Extractor) extractPair(ctx context.Context, term, subreddit string, result *Result) error {
	pair := Pair{Term: term, Subreddit: subreddit}

	e.logger.InfoWithFields("searching", map[string]interface{}{
		"term":      term,
		"subreddit": subreddit,
	})

	posts, err := e.client.Search(ctx, term, subreddit, e.cfg.Search.Sort, e.cfg.Search.PostLimit)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result.RecordFailure(pair, "search", "", err)
		return nil
	}

	for i := range posts {
		raw := &posts[i]
		if raw.ID == "" {
			continue
		}
		if result.HasPost(raw.ID) {
			// First writer wins; duplicates skip comment fetching too,
			// so no comments exist for a post id absent from the output
			result.RecordDuplicate(pair)
			continue
		}

		result.AddPost(buildPost(raw, term))

		if raw.NumComments > 0 {
			if err := e.collectComments(ctx, pair, raw.ID, result); err != nil {
				return err
			}
		}

		if err := e.pause(ctx, e.cfg.RateLimit.PostPause); err != nil {
			return err
		}
	}

	return nil
}

// collectComments fetches and appends the comment records for one post
func (e *Extractor) collectComments(ctx context.Context, pair Pair, postID string, result *Result) error {
	comments, err := e.client.FetchComments(ctx, postID, e.cfg.Search.CommentLimit)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result.RecordFailure(pair, "comments", postID, err)
		return nil
	}

	for i := range comments {
		result.AddComment(buildComment(&comments[i], postID))
	}

	return nil
}

// ParseSubreddits splits a "+"-delimited subreddit spec into an ordered
// list of names, dropping empty segments.
func ParseSubreddits(spec string) []string {
	parts := strings.Split(spec, "+")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// buildPost converts a raw search payload into a Post record
func buildPost(raw *reddit.PostData, term string) models.Post {
	m := metrics.ForPost(raw)

	author := raw.Author
	if author == "" {
		author = models.AuthorDeleted
	}

	return models.Post{
		PostID:      raw.ID,
		Title:       raw.Title,
		Text:        raw.Selftext,
		Score:       m.Score,
		UpvoteRatio: m.UpvoteRatio,
		CreatedUTC:  timeFromUnix(raw.CreatedUTC),
		NumComments: m.NumComments,
		Permalink:   permalinkBase + raw.Permalink,
		Subreddit:   raw.Subreddit,
		Author:      author,
		SearchTerm:  term,
		TitleLength: m.TitleLength,
		TextLength:  m.TextLength,
		TotalLength: m.TotalLength,
		WordCount:   m.WordCount,
		HasURL:      m.HasURL,
		IsSelf:      m.IsSelf,
		IsVideo:     m.IsVideo,
		IsStickied:  m.IsStickied,
		Domain:      m.Domain,
	}
}

// buildComment converts a raw comment payload into a Comment record.
// The sequence id is assigned by Result.AddComment.
func buildComment(raw *reddit.CommentData, postID string) models.Comment {
	m := metrics.ForComment(raw)

	author := raw.Author
	if author == "" {
		author = models.AuthorDeleted
	}

	return models.Comment{
		PostID:           postID,
		Text:             raw.BodyText(),
		Score:            m.Score,
		CreatedUTC:       timeFromUnix(raw.CreatedUTC),
		Author:           author,
		IsSubmitter:      m.IsSubmitter,
		Permalink:        permalinkBase + raw.Permalink,
		TextLength:       m.TextLength,
		WordCount:        m.WordCount,
		HasURL:           m.HasURL,
		IsStickied:       m.IsStickied,
		Depth:            m.Depth,
		Controversiality: m.Controversiality,
	}
}

// timeFromUnix converts the API's fractional unix seconds to a UTC time
func timeFromUnix(secs float64) time.Time {
	return time.Unix(int64(secs), 0).UTC()
}
