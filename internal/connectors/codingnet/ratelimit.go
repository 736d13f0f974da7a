package codingnet

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Quota headers sent by the API.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// Quota is the request allowance last reported by the server.
// Remaining is -1 until a response carries the header.
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Exhausted reports whether no requests are left before Reset.
func (q Quota) Exhausted(now time.Time) bool {
	return q.Remaining == 0 && now.Before(q.Reset)
}

// merge overlays the quota headers present in h onto q.
func (q Quota) merge(h http.Header) Quota {
	if n, err := strconv.Atoi(h.Get(HeaderRateRemaining)); err == nil {
		q.Remaining = n
	}
	if n, err := strconv.Atoi(h.Get(HeaderRateLimit)); err == nil {
		q.Limit = n
	}
	if unix, err := strconv.ParseInt(h.Get(HeaderRateReset), 10, 64); err == nil {
		q.Reset = time.Unix(unix, 0)
	}
	return q
}

// RateLimiter paces requests on one connection. A token bucket applies the
// configured requests per second; on top of that, requests wait for the
// reset time once the server says the quota is used up.
type RateLimiter struct {
	bucket *rate.Limiter

	mu    sync.Mutex
	quota Quota
}

// NewRateLimiter returns a limiter. perSecond <= 0 turns off the bucket.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
		quota:  Quota{Remaining: -1},
	}
}

// Quota returns the last reported allowance.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	q := r.Quota()
	if !q.Exhausted(time.Now()) {
		return nil
	}
	timer := time.NewTimer(time.Until(q.Reset))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records the quota headers of resp.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}
	r.mu.Lock()
	r.quota = r.quota.merge(resp.Header)
	r.mu.Unlock()
}

// Check observes resp and returns a RateLimitError when it was refused for
// rate reasons: a 429, or a 403 once the quota reads zero.
func (r *RateLimiter) Check(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	r.Observe(resp)
	q := r.Quota()

	limited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && q.Remaining == 0)
	if !limited {
		return nil
	}

	resetAt := q.Reset
	if at, ok := retryAfter(resp.Header.Get(HeaderRetryAfter), time.Now()); ok {
		resetAt = at
	}
	return &RateLimitError{ResetAt: resetAt, Remaining: q.Remaining, Limit: q.Limit}
}

// retryAfter accepts both forms of the header: delay seconds or an HTTP date.
func retryAfter(value string, now time.Time) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return now.Add(time.Duration(seconds) * time.Second), true
	}
	if at, err := http.ParseTime(value); err == nil {
		return at, true
	}
	return time.Time{}, false
}
