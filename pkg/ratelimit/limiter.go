// Package ratelimit paces Reddit API requests. It combines a proactive
// token bucket with reactive waits derived from the rate-limit headers
// Reddit attaches to every response.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRateRemaining is the remaining-quota header (may be fractional)
	HeaderRateRemaining = "X-Ratelimit-Remaining"

	// HeaderRateReset is the seconds-until-reset header
	HeaderRateReset = "X-Ratelimit-Reset"

	// HeaderRetryAfter is the standard retry-after header (seconds)
	HeaderRetryAfter = "Retry-After"
)

// Limiter is the pacing contract the API client depends on
type Limiter interface {
	Wait(ctx context.Context) error
	UpdateFromResponse(resp *http.Response)
	RetryAfter() (time.Duration, bool)
}

// Pacer implements Limiter with a token bucket sized from the API quota
// plus header-derived reactive throttling.
type Pacer struct {
	bucket *rate.Limiter

	mu        sync.Mutex
	remaining float64
	resetAt   time.Time
	haveState bool
}

// NewPacer creates a pacer allowing requestsPerMinute sustained requests
func NewPacer(requestsPerMinute int) *Pacer {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Pacer{
		bucket: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Wait blocks until it is safe to make a request. The token bucket is
// consulted first; if the API reported an exhausted quota, Wait also
// sleeps until the reported reset time.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.bucket.Wait(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	exhausted := p.haveState && p.remaining < 1
	resetAt := p.resetAt
	p.mu.Unlock()

	if exhausted && time.Now().Before(resetAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetAt)):
		}
	}

	return nil
}

// UpdateFromResponse records the quota headers from a response
func (p *Pacer) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.ParseFloat(remaining, 64); err == nil {
			p.remaining = val
			p.haveState = true
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if secs, err := strconv.ParseFloat(reset, 64); err == nil {
			p.resetAt = time.Now().Add(time.Duration(secs * float64(time.Second)))
		}
	}

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			p.resetAt = time.Now().Add(time.Duration(secs) * time.Second)
			p.remaining = 0
			p.haveState = true
		}
	}
}

// RetryAfter returns how long to wait before the quota resets, and
// whether the API has actually reported an exhausted quota.
func (p *Pacer) RetryAfter() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.haveState || p.remaining >= 1 {
		return 0, false
	}
	d := time.Until(p.resetAt)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// Remaining returns the last quota value reported by the API
func (p *Pacer) Remaining() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}
