package reddit

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// AuthBaseURL is the base URL for the OAuth token exchange
	AuthBaseURL = "https://www.reddit.com"

	// APIBaseURL is the base URL for authenticated API calls
	APIBaseURL = "https://oauth.reddit.com"

	// TokenEndpoint is the client-credentials exchange endpoint
	TokenEndpoint = "/api/v1/access_token"

	// SubredditAll is the wildcard scope for a global search
	SubredditAll = "all"

	// MaxSearchLimit is the most items the search endpoint returns per call
	MaxSearchLimit = 100
)

// SearchURL constructs the search URL for a query. An "all" subreddit
// produces a global search; any other name restricts results to that
// subreddit. The query is percent-encoded by url.Values so reserved
// characters cannot corrupt the parameter boundary.
func SearchURL(base, query, subreddit, sort string, limit int) string {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sort)
	params.Set("limit", strconv.Itoa(limit))

	if strings.EqualFold(subreddit, SubredditAll) {
		return fmt.Sprintf("%s/search?%s", base, params.Encode())
	}

	params.Set("restrict_sr", "1")
	return fmt.Sprintf("%s/r/%s/search?%s", base, url.PathEscape(subreddit), params.Encode())
}

// CommentsURL constructs the URL for a post's comment listing
func CommentsURL(base, postID string, limit int) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	return fmt.Sprintf("%s/comments/%s?%s", base, url.PathEscape(postID), params.Encode())
}

// TokenURL constructs the OAuth token exchange URL
func TokenURL(base string) string {
	return base + TokenEndpoint
}
