package reddit

import "encoding/json"

// tokenResponse is the body of a successful client-credentials exchange
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Listing is the generic Reddit listing envelope. Search responses and
// the comment part of a /comments response both use this shape.
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

// ListingData holds the children of a listing
type ListingData struct {
	After    string  `json:"after"`
	Children []Thing `json:"children"`
}

// Thing wraps one item of a listing. Kind distinguishes posts ("t3"),
// comments ("t1") and "more comments" stubs ("more").
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// PostData is the raw payload of one post as returned by the search
// endpoint. Only the fields the pipeline consumes are mapped.
type PostData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	// IsSelf is a pointer so that an absent field can default to true
	IsSelf   *bool  `json:"is_self"`
	IsVideo  bool   `json:"is_video"`
	Stickied bool   `json:"stickied"`
	Domain   string `json:"domain"`
}

// SelfPost reports the is_self flag, defaulting to true when absent
func (p *PostData) SelfPost() bool {
	if p.IsSelf == nil {
		return true
	}
	return *p.IsSelf
}

// CommentData is the raw payload of one comment. Body is a pointer so a
// null body (deleted or removed comment) is distinguishable from an
// empty string; such payloads are filtered before record conversion.
type CommentData struct {
	ID               string  `json:"id"`
	Body             *string `json:"body"`
	Score            int     `json:"score"`
	CreatedUTC       float64 `json:"created_utc"`
	Author           string  `json:"author"`
	IsSubmitter      bool    `json:"is_submitter"`
	Permalink        string  `json:"permalink"`
	Stickied         bool    `json:"stickied"`
	Depth            int     `json:"depth"`
	Controversiality int     `json:"controversiality"`
}

// Valid reports whether the payload is a real comment: both a body and
// an id must be present. Deleted comments and "more" stubs fail this.
func (c *CommentData) Valid() bool {
	return c.Body != nil && c.ID != ""
}

// BodyText returns the comment body, empty if absent
func (c *CommentData) BodyText() string {
	if c.Body == nil {
		return ""
	}
	return *c.Body
}
