// Package reddit implements the authenticated Reddit API client used by
// the extraction pipeline: OAuth token acquisition, scoped post search
// and top-level comment retrieval.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"redditextract/pkg/config"
	errs "redditextract/pkg/errors"
	"redditextract/pkg/logger"
	"redditextract/pkg/ratelimit"
	"redditextract/pkg/retry"
)

const bodyPreviewLimit = 300

// Client is an authenticated Reddit API client
type Client struct {
	httpClient   *http.Client
	authBase     string
	apiBase      string
	userAgent    string
	clientID     string
	clientSecret string
	token        string
	limiter      ratelimit.Limiter
	retryCfg     *retry.Config
	logger       logger.Logger
}

// NewClient creates a Reddit client from configuration
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	limiter := ratelimit.NewPacer(cfg.RateLimit.RequestsPerMinute)

	retryCfg := &retry.Config{
		MaxAttempts: cfg.RateLimit.MaxRetries,
		RetryIf:     retry.DefaultRetryIf,
		Logger:      log,
		Backoff: &retry.WithDelayOverride{
			Inner: &retry.ExponentialBackoff{
				BaseDelay:    cfg.RateLimit.RetryDelay,
				MaxDelay:     2 * time.Minute,
				Multiplier:   2.0,
				JitterFactor: 0.1,
			},
			Override: func(int) (time.Duration, bool) { return limiter.RetryAfter() },
		},
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Reddit.Timeout},
		authBase:     AuthBaseURL,
		apiBase:      APIBaseURL,
		userAgent:    cfg.Reddit.UserAgent,
		clientID:     cfg.Reddit.ClientID,
		clientSecret: cfg.Reddit.ClientSecret,
		limiter:      limiter,
		retryCfg:     retryCfg,
		logger:       log,
	}
}

// SetBaseURLs overrides the API endpoints, for tests against local servers
func (c *Client) SetBaseURLs(authBase, apiBase string) {
	c.authBase = authBase
	c.apiBase = apiBase
}

// Token returns the current bearer token, empty before authentication
func (c *Client) Token() string {
	return c.token
}

// Authenticate performs the client-credentials exchange and stores the
// resulting bearer token. Any failure, network or HTTP, is returned as a
// single auth error kind; no retry is attempted here.
func (c *Client) Authenticate(ctx context.Context) error {
	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, TokenURL(c.authBase), form)
	if err != nil {
		return errs.New(errs.ErrorTypeAuth, fmt.Sprintf("failed to build token request: %v", err))
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("requesting authentication token")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.New(errs.ErrorTypeAuth, fmt.Sprintf("token request failed: %v", err))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.ErrorWithFields("token exchange rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   preview(body),
		})
		return errs.NewWithCode(errs.ErrorTypeAuth, "token exchange rejected", resp.StatusCode, preview(body))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return errs.NewWithCode(errs.ErrorTypeAuth, "token response missing access token", resp.StatusCode, preview(body))
	}

	c.token = tok.AccessToken
	c.logger.Info("authentication token obtained")
	return nil
}

// Search runs a single-page search for query. A subreddit of "all"
// searches globally, anything else restricts results to that subreddit.
// The returned error is soft: callers treat it as zero results.
func (c *Client) Search(ctx context.Context, query, subreddit, sort string, limit int) ([]PostData, error) {
	url := SearchURL(c.apiBase, query, subreddit, sort, limit)

	c.logger.DebugWithFields("searching", map[string]interface{}{
		"query":     query,
		"subreddit": subreddit,
		"limit":     limit,
	})

	var listing Listing
	if err := c.getJSON(ctx, url, &listing); err != nil {
		c.logger.WarnWithFields("search failed", map[string]interface{}{
			"query":     query,
			"subreddit": subreddit,
			"error":     err.Error(),
		})
		return nil, err
	}

	posts := make([]PostData, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var post PostData
		if err := json.Unmarshal(child.Data, &post); err != nil {
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// FetchComments retrieves the top-level comment payloads for a post.
// The endpoint returns a two-part array (post listing, comment listing);
// only the second part is consumed. Fewer than two parts means the post
// simply has no comments. Payloads without both a body and an id, such
// as deleted comments and "more comments" stubs, are filtered out here.
func (c *Client) FetchComments(ctx context.Context, postID string, limit int) ([]CommentData, error) {
	url := CommentsURL(c.apiBase, postID, limit)

	var parts []Listing
	if err := c.getJSON(ctx, url, &parts); err != nil {
		c.logger.WarnWithFields("comment fetch failed", map[string]interface{}{
			"post_id": postID,
			"error":   err.Error(),
		})
		return nil, err
	}

	if len(parts) < 2 {
		return nil, nil
	}

	children := parts[1].Data.Children
	comments := make([]CommentData, 0, len(children))
	for _, child := range children {
		if child.Kind != "t1" {
			continue
		}
		var comment CommentData
		if err := json.Unmarshal(child.Data, &comment); err != nil {
			continue
		}
		if !comment.Valid() {
			continue
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// getJSON performs an authenticated GET with pacing and transient-error
// retry. A 401/403 invalidates the stored token and triggers exactly one
// re-authentication before the request is replayed.
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	err := c.getJSONWithRetry(ctx, url, target)
	if err == nil || !errs.IsAuth(err) {
		return err
	}

	c.logger.Warn("bearer token rejected, re-authenticating")
	c.token = ""
	if authErr := c.Authenticate(ctx); authErr != nil {
		return err
	}
	return c.getJSONWithRetry(ctx, url, target)
}

func (c *Client) getJSONWithRetry(ctx context.Context, url string, target interface{}) error {
	cfg := *c.retryCfg
	cfg.Context = ctx
	return retry.Do(func() error {
		return c.doGet(ctx, url, target)
	}, &cfg)
}

func (c *Client) doGet(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errs.New(errs.ErrorTypeNetwork, fmt.Sprintf("rate limit wait cancelled: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewWithCode(errs.ErrorTypeNetwork, "failed to read response body", resp.StatusCode, "")
	}

	c.logger.DebugWithFields("request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		return errs.FromStatusCode(resp.StatusCode, preview(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errs.NewWithCode(errs.ErrorTypeParsing, fmt.Sprintf("failed to parse response: %v", err), resp.StatusCode, preview(body))
	}

	return nil
}

// preview truncates a response body for log and error payloads
func preview(body []byte) string {
	s := string(body)
	if len(s) > bodyPreviewLimit {
		return s[:bodyPreviewLimit] + "..."
	}
	return s
}
